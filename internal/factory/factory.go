// Package factory constructs empty dynamic messages bound to a descriptor.
// Construction is pure value allocation and never touches a type registry.
package factory

import (
	"github.com/datahopper/protoreflect/internal/descriptor"
	"github.com/datahopper/protoreflect/internal/dynamicmsg"
)

// New creates an empty dynamic message bound to desc: every singular field
// absent, every repeated/map field an empty sequence/mapping.
func New(desc *descriptor.MessageDescriptor) *dynamicmsg.Message {
	return dynamicmsg.New(desc)
}
