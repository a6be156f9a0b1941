package dynamo

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// strKey builds a DynamoDB primary key map with a single string attribute.
func strKey(name, value string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		name: &types.AttributeValueMemberS{Value: value},
	}
}

// UpdateExpr holds the pieces of a DynamoDB SET update expression.
type UpdateExpr struct {
	Expr   string
	Names  map[string]string
	Values map[string]types.AttributeValue
}

// buildUpdateExpr converts a map of field->value into a DynamoDB SET
// expression. Keys are processed in sorted order so the expression is
// deterministic.
func buildUpdateExpr(updates map[string]interface{}) (*UpdateExpr, error) {
	if len(updates) == 0 {
		return nil, fmt.Errorf("no fields to update")
	}
	keys := make([]string, 0, len(updates))
	for k := range updates {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	ue := &UpdateExpr{
		Names:  make(map[string]string, len(keys)),
		Values: make(map[string]types.AttributeValue, len(keys)),
	}
	parts := make([]string, 0, len(keys))
	for i, k := range keys {
		nameKey := fmt.Sprintf("#f%d", i)
		valueKey := fmt.Sprintf(":v%d", i)
		av, err := attributevalue.Marshal(updates[k])
		if err != nil {
			return nil, fmt.Errorf("marshal field %s: %w", k, err)
		}
		ue.Names[nameKey] = k
		ue.Values[valueKey] = av
		parts = append(parts, fmt.Sprintf("%s = %s", nameKey, valueKey))
	}
	ue.Expr = "SET " + strings.Join(parts, ", ")
	return ue, nil
}
