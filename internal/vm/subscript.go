package vm

import "github.com/echolang/echo/internal/object"

// subscript implements BINARY_SUBSCR for the native sequence/mapping types,
// falling back to a boxed object's __getitem__ otherwise.
func subscript(ctx *object.Context, container, index object.Value) (object.Value, *object.Exception) {
	switch c := container.(type) {
	case object.Tuple:
		i, exc := asIndex(index, len(c))
		if exc != nil {
			return nil, exc
		}
		return c[i], nil
	case *object.List:
		i, exc := asIndex(index, len(*c))
		if exc != nil {
			return nil, exc
		}
		return (*c)[i], nil
	case *object.Dict:
		v, ok := c.Get(index)
		if !ok {
			return nil, object.NewException(object.KeyErrorType, "%v", index)
		}
		return v, nil
	case string:
		i, exc := asIndex(index, len(c))
		if exc != nil {
			return nil, exc
		}
		return string(c[i]), nil
	}
	method, exc := object.DoGetAttr(ctx, container, "__getitem__")
	if exc != nil {
		return nil, exc
	}
	return ctx.Call(method, []object.Value{index}, nil)
}

func storeSubscript(ctx *object.Context, container, index, val object.Value) *object.Exception {
	switch c := container.(type) {
	case *object.List:
		i, exc := asIndex(index, len(*c))
		if exc != nil {
			return exc
		}
		(*c)[i] = val
		return nil
	case *object.Dict:
		c.Set(index, val)
		return nil
	}
	method, exc := object.DoGetAttr(ctx, container, "__setitem__")
	if exc != nil {
		return exc
	}
	_, exc = ctx.Call(method, []object.Value{index, val}, nil)
	return exc
}

// deleteSubscript implements DELETE_SUBSCR for the native mapping/sequence
// types, falling back to a boxed object's __delitem__ otherwise.
func deleteSubscript(ctx *object.Context, container, index object.Value) *object.Exception {
	switch c := container.(type) {
	case *object.Dict:
		if !c.Delete(index) {
			return object.NewException(object.KeyErrorType, "%v", index)
		}
		return nil
	case *object.List:
		i, exc := asIndex(index, len(*c))
		if exc != nil {
			return exc
		}
		*c = append((*c)[:i], (*c)[i+1:]...)
		return nil
	}
	method, exc := object.DoGetAttr(ctx, container, "__delitem__")
	if exc != nil {
		return exc
	}
	_, exc = ctx.Call(method, []object.Value{index}, nil)
	return exc
}

func asIndex(v object.Value, length int) (int, *object.Exception) {
	i, ok := v.(int64)
	if !ok {
		return 0, object.NewException(object.TypeErrorType, "indices must be integers")
	}
	idx := int(i)
	if idx < 0 {
		idx += length
	}
	if idx < 0 || idx >= length {
		return 0, object.NewException(object.IndexErrorType, "index out of range")
	}
	return idx, nil
}

// echoIterator adapts a native Go slice/tuple into the __iter__/__next__
// protocol so GET_ITER/FOR_ITER can treat native and boxed iterables
// uniformly.
type echoIterator struct {
	items []object.Value
	pos   int
}

func (it *echoIterator) GetType() *object.Class                   { return object.ObjectType }
func (it *echoIterator) HasAttrWhere(name string) object.AttrWhere { return object.AttrAbsent }
func (it *echoIterator) GetAttr(ctx *object.Context, name string) (object.Value, *object.Exception) {
	return nil, object.NewException(object.AttributeErrorType, "'iterator' object has no attribute '%s'", name)
}
func (it *echoIterator) SetAttr(ctx *object.Context, name string, value object.Value) *object.Exception {
	return object.NewException(object.AttributeErrorType, "'iterator' object has no attribute '%s'", name)
}

func getIter(ctx *object.Context, v object.Value) (object.Value, *object.Exception) {
	switch c := v.(type) {
	case object.Tuple:
		return &echoIterator{items: append([]object.Value{}, c...)}, nil
	case *object.List:
		return &echoIterator{items: append([]object.Value{}, (*c)...)}, nil
	case string:
		items := make([]object.Value, 0, len(c))
		for _, r := range c {
			items = append(items, string(r))
		}
		return &echoIterator{items: items}, nil
	case *object.Dict:
		items := make([]object.Value, 0, c.Len())
		items = append(items, c.Keys()...)
		return &echoIterator{items: items}, nil
	case *object.Set:
		return &echoIterator{items: c.Items()}, nil
	}
	if eo, ok := v.(object.EchoObject); ok && object.HasAttr(eo, "__iter__") {
		method, exc := object.DoGetAttr(ctx, v, "__iter__")
		if exc != nil {
			return nil, exc
		}
		return ctx.Call(method, nil, nil)
	}
	return nil, object.NewException(object.TypeErrorType, "object is not iterable")
}

func iterNext(ctx *object.Context, iter object.Value) (object.Value, *object.Exception) {
	if it, ok := iter.(*echoIterator); ok {
		if it.pos >= len(it.items) {
			return nil, &object.Exception{Type: object.StopIterationType}
		}
		v := it.items[it.pos]
		it.pos++
		return v, nil
	}
	method, exc := object.DoGetAttr(ctx, iter, "__next__")
	if exc != nil {
		return nil, exc
	}
	return ctx.Call(method, nil, nil)
}
