package cel

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Evaluator(t *testing.T) {
	e := NewEvaluator()
	ctx := context.Background()

	t.Run("should evaluate conditions on hash arguments", func(t *testing.T) {
		vars := map[string]interface{}{
			"hash": map[string]interface{}{"count": 5, "status": "active"},
		}
		matched, err := e.EvaluateBool(ctx, "hash.count > 3 && hash.status == 'active'", vars)
		require.NoError(t, err)
		assert.True(t, matched)
	})

	t.Run("should reject non boolean results", func(t *testing.T) {
		vars := map[string]interface{}{"hash": map[string]interface{}{"name": "x"}}
		_, err := e.EvaluateBool(ctx, "hash.name", vars)
		assert.Error(t, err)
	})

	t.Run("should report compile errors", func(t *testing.T) {
		assert.Error(t, e.ValidateExpression("hash.count >"))
		assert.NoError(t, e.ValidateExpression("size(hash) == 0"))

		_, err := e.Evaluate(ctx, "unknown_var == 1", map[string]interface{}{})
		assert.Error(t, err)
	})

	t.Run("should reuse compiled programs", func(t *testing.T) {
		e.ClearCache()
		vars := map[string]interface{}{"hash": map[string]interface{}{}}
		_, err := e.Evaluate(ctx, "size(hash) == 0", vars)
		require.NoError(t, err)
		_, err = e.Evaluate(ctx, "size(hash) == 0", vars)
		require.NoError(t, err)
		assert.Len(t, e.cache, 1)
	})
}
