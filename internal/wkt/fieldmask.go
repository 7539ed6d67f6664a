package wkt

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/datahopper/protoreflect/internal/dynamicmsg"
	"github.com/datahopper/protoreflect/internal/factory"
	"github.com/datahopper/protoreflect/internal/pberr"
)

const fieldMaskTypeName = "google.protobuf.FieldMask"

var pathSegmentPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)*$`)

// ValidPath reports whether path matches the FieldMask path grammar:
// dot-joined segments of [A-Za-z_][A-Za-z0-9_]*, with no empty segments.
func ValidPath(path string) bool {
	return pathSegmentPattern.MatchString(path)
}

// FieldMaskValue is the host-native representation of google.protobuf.FieldMask:
// an ordered sequence of paths.
type FieldMaskValue struct {
	Paths []string
}

// Contains reports exact membership of path in the mask.
func (f FieldMaskValue) Contains(path string) bool {
	for _, p := range f.Paths {
		if p == path {
			return true
		}
	}
	return false
}

// Covers reports whether path equals a stored path or has a stored path as
// a dot-prefix: storing "user" covers "user.name", but storing "user.name"
// does not cover "user".
func (f FieldMaskValue) Covers(path string) bool {
	for _, p := range f.Paths {
		if p == path || strings.HasPrefix(path, p+".") {
			return true
		}
	}
	return false
}

// Add appends path to the mask. Fails with pberr.InvalidData if path is not
// grammatically valid.
func (f FieldMaskValue) Add(path string) (FieldMaskValue, error) {
	if !ValidPath(path) {
		return f, pberr.InvalidData(fieldMaskTypeName, fmt.Sprintf("invalid path %q", path))
	}
	out := make([]string, len(f.Paths), len(f.Paths)+1)
	copy(out, f.Paths)
	out = append(out, path)
	return FieldMaskValue{Paths: out}, nil
}

// Remove removes path from the mask; removing a non-member is a no-op.
func (f FieldMaskValue) Remove(path string) FieldMaskValue {
	out := make([]string, 0, len(f.Paths))
	for _, p := range f.Paths {
		if p != path {
			out = append(out, p)
		}
	}
	return FieldMaskValue{Paths: out}
}

// Union returns the deduplicated path set of f and other, preserving f's
// path order and appending other's previously-unseen paths.
func (f FieldMaskValue) Union(other FieldMaskValue) FieldMaskValue {
	seen := make(map[string]bool, len(f.Paths)+len(other.Paths))
	out := make([]string, 0, len(f.Paths)+len(other.Paths))
	for _, p := range f.Paths {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	for _, p := range other.Paths {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	return FieldMaskValue{Paths: out}
}

// Intersection returns the paths present in both f and other, in f's order.
func (f FieldMaskValue) Intersection(other FieldMaskValue) FieldMaskValue {
	otherSet := make(map[string]bool, len(other.Paths))
	for _, p := range other.Paths {
		otherSet[p] = true
	}
	out := make([]string, 0, len(f.Paths))
	for _, p := range f.Paths {
		if otherSet[p] {
			out = append(out, p)
		}
	}
	return FieldMaskValue{Paths: out}
}

type fieldMaskHandler struct{}

// FieldMaskHandler is the stateless Handler for google.protobuf.FieldMask.
var FieldMaskHandler Handler = fieldMaskHandler{}

func (fieldMaskHandler) HandledTypeName() string    { return fieldMaskTypeName }
func (fieldMaskHandler) SupportPhase() SupportPhase { return PhaseImportant }

func (fieldMaskHandler) CreateSpecialized(msg *dynamicmsg.Message) (interface{}, error) {
	if msg.Descriptor().FullName() != fieldMaskTypeName {
		return nil, pberr.InvalidData(fieldMaskTypeName, "message descriptor is not google.protobuf.FieldMask")
	}
	pathsVal, err := msg.Get("paths")
	if err != nil {
		return nil, err
	}
	raw, _ := pathsVal.([]interface{})
	paths := make([]string, 0, len(raw))
	for _, p := range raw {
		s, _ := p.(string)
		if !ValidPath(s) {
			return nil, pberr.InvalidData(fieldMaskTypeName, fmt.Sprintf("invalid path %q", s))
		}
		paths = append(paths, s)
	}
	return FieldMaskValue{Paths: paths}, nil
}

func (fieldMaskHandler) CreateDynamic(s interface{}) (*dynamicmsg.Message, error) {
	fv, ok := s.(FieldMaskValue)
	if !ok {
		return nil, pberr.ConversionFailed(fmt.Sprintf("%T", s), fieldMaskTypeName, "expected FieldMaskValue")
	}
	if !FieldMaskHandler.Validate(fv) {
		return nil, pberr.ConversionFailed("FieldMaskValue", fieldMaskTypeName, "contains an invalid path")
	}
	msg := factory.New(fieldMaskDescriptor)
	paths := make([]string, len(fv.Paths))
	copy(paths, fv.Paths)
	_ = msg.Set("paths", paths)
	return msg, nil
}

func (fieldMaskHandler) Validate(s interface{}) bool {
	fv, ok := s.(FieldMaskValue)
	if !ok {
		return false
	}
	for _, p := range fv.Paths {
		if !ValidPath(p) {
			return false
		}
	}
	return true
}
