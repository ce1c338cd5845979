package agent

import (
	"fmt"
	"strings"
)

// Operation задает закрытый набор операций, которые агент умеет выполнять.
type Operation string

const (
	OpEMI           Operation = "emi"
	OpAffordability Operation = "affordability"
	OpStress        Operation = "stress_test"
	OpCompare       Operation = "compare"
	OpFull          Operation = "full"
)

var operations = []Operation{OpEMI, OpAffordability, OpStress, OpCompare, OpFull}

// Operations возвращает все поддерживаемые операции.
func Operations() []Operation {
	result := make([]Operation, len(operations))
	copy(result, operations)
	return result
}

// ParseOperation разбирает имя операции из запроса. Пустая строка дает "".
func ParseOperation(value string) (Operation, error) {
	normalized := Operation(strings.ToLower(strings.TrimSpace(value)))
	if normalized == "" {
		return "", nil
	}
	for _, op := range operations {
		if op == normalized {
			return op, nil
		}
	}
	return "", fmt.Errorf("unknown operation %q", value)
}

// порядок важен: более узкие намерения проверяются первыми
var intentKeywords = []struct {
	op       Operation
	keywords []string
}{
	{OpStress, []string{"stress", "rate hike", "rates increase", "rate increase", "rates go up", "rate shock", "what if rates", "rbi"}},
	{OpCompare, []string{"compare", "comparison", "which tenure", "best tenure", "tenure options", "scenario", "shorter or longer"}},
	{OpAffordability, []string{"afford", "affordable", "can i take", "risk", "safe", "budget"}},
	{OpEMI, []string{"emi", "monthly payment", "installment", "instalment", "how much will i pay"}},
}

// ParseIntent выбирает операцию по ключевым словам вопроса.
// Вопросы с несколькими намерениями и пустые вопросы получают OpFull.
func ParseIntent(query string) Operation {
	text := strings.ToLower(strings.TrimSpace(query))
	if text == "" {
		return OpFull
	}

	var matched []Operation
	for _, intent := range intentKeywords {
		for _, keyword := range intent.keywords {
			if strings.Contains(text, keyword) {
				matched = append(matched, intent.op)
				break
			}
		}
	}

	if len(matched) == 1 {
		return matched[0]
	}
	return OpFull
}
