package helpers

import (
	"fmt"
	"reflect"
	"sort"

	"github.com/aescanero/dago-node-render/internal/helper"
	"github.com/aymerick/raymond"
)

func errBlockOnly(name string) error {
	return fmt.Errorf("%s can only be used as a section", name)
}

// ifHelper renders the block if the param is truthy
type ifHelper struct{}

func (ifHelper) Validate(def helper.Definition) error {
	if err := requireBlock(def); err != nil {
		return err
	}
	return helper.CheckParams(def, 1, 1)
}

func (ifHelper) Execute(o helper.Options) error {
	if raymond.IsTrue(o.Params()[0]) {
		return o.Fn()
	}
	return o.Inverse()
}

// unlessHelper renders the block if the param is falsy
type unlessHelper struct{}

func (unlessHelper) Validate(def helper.Definition) error {
	if err := requireBlock(def); err != nil {
		return err
	}
	return helper.CheckParams(def, 1, 1)
}

func (unlessHelper) Execute(o helper.Options) error {
	if raymond.IsTrue(o.Params()[0]) {
		return o.Inverse()
	}
	return o.Fn()
}

// eachHelper iterates lists in order and maps by sorted key
type eachHelper struct{}

func (eachHelper) Validate(def helper.Definition) error {
	if err := requireBlock(def); err != nil {
		return err
	}
	return helper.CheckParams(def, 1, 1)
}

func (eachHelper) Execute(o helper.Options) error {
	items := elements(o.Params()[0])
	if len(items) == 0 {
		return o.Inverse()
	}
	for _, item := range items {
		o.Push(item)
		if err := o.Fn(); err != nil {
			return err
		}
		if _, err := o.Pop(); err != nil {
			return err
		}
	}
	return nil
}

// elements returns the elements of a list, or the values of a map ordered by key
func elements(v interface{}) []interface{} {
	if v == nil {
		return nil
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		items := make([]interface{}, rv.Len())
		for i := range items {
			items[i] = rv.Index(i).Interface()
		}
		return items
	case reflect.Map:
		keys := rv.MapKeys()
		sort.Slice(keys, func(i, j int) bool {
			return fmt.Sprint(keys[i].Interface()) < fmt.Sprint(keys[j].Interface())
		})
		items := make([]interface{}, len(keys))
		for i, k := range keys {
			items[i] = rv.MapIndex(k).Interface()
		}
		return items
	}
	return nil
}

// withHelper pushes a truthy param
type withHelper struct{}

func (withHelper) Validate(def helper.Definition) error {
	if err := requireBlock(def); err != nil {
		return err
	}
	return helper.CheckParams(def, 1, 1)
}

func (withHelper) Execute(o helper.Options) error {
	v := o.Params()[0]
	if !raymond.IsTrue(v) {
		return o.Inverse()
	}
	o.Push(v)
	if err := o.Fn(); err != nil {
		return err
	}
	_, err := o.Pop()
	return err
}

// comparison renders its block when the predicate holds, or the boolean
// result for value tags
type comparison struct {
	arity int
	pred  func(params []interface{}) bool
}

func compare(arity int, pred func(params []interface{}) bool) *comparison {
	return &comparison{arity: arity, pred: pred}
}

func (c *comparison) Validate(def helper.Definition) error {
	return helper.CheckParams(def, c.arity, c.arity)
}

func (c *comparison) Execute(o helper.Options) error {
	ok := c.pred(o.Params())
	if !isSectionDef(o) {
		return appendValue(o, ok)
	}
	if ok {
		return o.Fn()
	}
	return o.Inverse()
}
