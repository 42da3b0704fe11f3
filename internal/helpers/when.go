package helpers

import (
	"context"
	"fmt"

	"github.com/aescanero/dago-node-render/internal/eval/cel"
	"github.com/aescanero/dago-node-render/internal/helper"
)

// whenHelper renders its block if a CEL expression holds. The expression
// sees the bound hash as "hash" and the current context object as "this"
// when it is a map.
type whenHelper struct {
	evaluator *cel.Evaluator
}

func (h *whenHelper) Validate(def helper.Definition) error {
	if err := requireBlock(def); err != nil {
		return err
	}
	if err := helper.CheckParams(def, 1, 1); err != nil {
		return err
	}
	expr, ok := def.Params()[0].(string)
	if !ok {
		return fmt.Errorf("when expects a string literal expression, got %v", def.Params()[0])
	}
	if err := h.evaluator.ValidateExpression(expr); err != nil {
		return fmt.Errorf("invalid when expression %s: %w", quoted(expr), err)
	}
	return nil
}

func (h *whenHelper) Execute(o helper.Options) error {
	vars := map[string]interface{}{
		"hash": o.Hash(),
	}
	if this, ok := o.Peek().(map[string]interface{}); ok {
		vars["this"] = this
	}

	matched, err := h.evaluator.EvaluateBool(context.Background(), o.Params()[0].(string), vars)
	if err != nil {
		return err
	}
	if matched {
		return o.Fn()
	}
	return o.Inverse()
}
