package helpers

import (
	"github.com/aescanero/dago-node-render/internal/helper"
	"github.com/aescanero/dago-node-render/internal/tag"
	"github.com/aymerick/raymond"
)

// includeHelper renders the template named by its param
type includeHelper struct{}

func (includeHelper) Validate(def helper.Definition) error {
	return helper.CheckParams(def, 1, 1)
}

func (includeHelper) Execute(o helper.Options) error {
	return o.Partial(raymond.Str(o.Params()[0]))
}

// embedHelper outputs the escaped source of the template named by its param
type embedHelper struct{}

func (embedHelper) Validate(def helper.Definition) error {
	return helper.CheckParams(def, 1, 1)
}

func (embedHelper) Execute(o helper.Options) error {
	src, err := o.Source(raymond.Str(o.Params()[0]))
	if err != nil {
		return err
	}
	return o.Append(raymond.Escape(src))
}

// asyncHelper renders its block on the executor. Output following the tag
// keeps its place after the block in the document.
type asyncHelper struct{}

func (asyncHelper) Validate(def helper.Definition) error {
	if err := requireBlock(def); err != nil {
		return err
	}
	return helper.CheckParams(def, 0, 0)
}

func (asyncHelper) Execute(o helper.Options) error {
	return o.ExecuteAsync(func(ao helper.Options) error {
		return ao.Fn()
	})
}

func isSectionDef(def helper.Definition) bool {
	return def.Tag().Type == tag.Section
}
