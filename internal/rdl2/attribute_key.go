package rdl2

import (
	"unsafe"

	"github.com/KilimcininKorOglu/rdl2/internal/except"
)

// AttributeKey is a typed handle to one attribute of one class. Reading a
// value through a key is plain pointer arithmetic into the object storage,
// with no lookup and no branch on the attribute type.
//
// A key must only be used with objects of the class it was made from.
type AttributeKey[T any] struct {
	index      int
	offset     uintptr
	flags      AttributeFlags
	objectType Interface
	typ        AttributeType
	boxed      bool
}

// NewAttributeKey returns a key for attr. It fails with a TypeError when T is
// not the attribute's Go type.
func NewAttributeKey[T any](attr *Attribute) (AttributeKey[T], error) {
	if AttributeTypeOf[T]() != attr.typ {
		var zero T
		return AttributeKey[T]{}, except.TypeErrorf("cannot make key of type %T for attribute '%s' of type %s",
			zero, attr.name, attr.typ)
	}
	return AttributeKey[T]{
		index:      attr.index,
		offset:     attr.offset,
		flags:      attr.flags,
		objectType: attr.objectType,
		typ:        attr.typ,
		boxed:      !attr.ops.inline,
	}, nil
}

// MustAttributeKey is like NewAttributeKey but panics on error. It is meant
// for package-level keys of built-in classes.
func MustAttributeKey[T any](key AttributeKey[T], err error) AttributeKey[T] {
	if err != nil {
		panic(err)
	}
	return key
}

// Index returns the declaration index of the attribute.
func (k AttributeKey[T]) Index() int { return k.index }

// Type returns the attribute type.
func (k AttributeKey[T]) Type() AttributeType { return k.typ }

// IsValid reports whether the key was made from an attribute.
func (k AttributeKey[T]) IsValid() bool { return k.typ != TypeUnknown }

// IsBlurrable reports whether the attribute stores one value per timestep.
func (k AttributeKey[T]) IsBlurrable() bool { return k.flags&FlagsBlurrable != 0 }

// IsBindable reports whether the attribute accepts bindings.
func (k AttributeKey[T]) IsBindable() bool { return k.flags&FlagsBindable != 0 }

// ObjectType returns the interface mask object values must satisfy.
func (k AttributeKey[T]) ObjectType() Interface { return k.objectType }

// ptr returns the address of the value at ts in s.
func (k AttributeKey[T]) ptr(s *storage, ts Timestep) *T {
	if k.flags&FlagsBlurrable == 0 {
		ts = TimestepBegin
	}
	if k.boxed {
		return (*T)(s.boxed(k.offset + uintptr(ts)))
	}
	var zero T
	return (*T)(s.inline(k.offset + uintptr(ts)*unsafe.Sizeof(zero)))
}
