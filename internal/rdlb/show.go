package rdlb

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/KilimcininKorOglu/rdl2/internal/rdl2"
)

// showPrefixes names values in the Show dump.
var showPrefixes = map[rdl2.AttributeType]string{
	rdl2.TypeBool:                 "bool",
	rdl2.TypeInt:                  "int",
	rdl2.TypeLong:                 "long",
	rdl2.TypeFloat:                "float",
	rdl2.TypeDouble:               "double",
	rdl2.TypeString:               "string",
	rdl2.TypeRgb:                  "rgb",
	rdl2.TypeRgba:                 "rgba",
	rdl2.TypeVec2f:                "vec2f",
	rdl2.TypeVec2d:                "vec2d",
	rdl2.TypeVec3f:                "vec3f",
	rdl2.TypeVec3d:                "vec3d",
	rdl2.TypeVec4f:                "vec4f",
	rdl2.TypeVec4d:                "vec4d",
	rdl2.TypeMat4f:                "mat4f",
	rdl2.TypeMat4d:                "mat4d",
	rdl2.TypeSceneObject:          "scnObj",
	rdl2.TypeBoolVector:           "boolVec",
	rdl2.TypeIntVector:            "intVec",
	rdl2.TypeLongVector:           "longVec",
	rdl2.TypeFloatVector:          "floatVec",
	rdl2.TypeDoubleVector:         "doubleVec",
	rdl2.TypeStringVector:         "stringVec",
	rdl2.TypeRgbVector:            "rgbVec",
	rdl2.TypeRgbaVector:           "rgbaVec",
	rdl2.TypeVec2fVector:          "vec2fVec",
	rdl2.TypeVec2dVector:          "vec2dVec",
	rdl2.TypeVec3fVector:          "vec3fVec",
	rdl2.TypeVec3dVector:          "vec3dVec",
	rdl2.TypeVec4fVector:          "vec4fVec",
	rdl2.TypeVec4dVector:          "vec4dVec",
	rdl2.TypeMat4fVector:          "mat4fVec",
	rdl2.TypeMat4dVector:          "mat4dVec",
	rdl2.TypeSceneObjectVector:    "scnObjVec",
	rdl2.TypeSceneObjectIndexable: "scnObjIndexable",
}

// Show writes a readable dump of every object in the context to out. With
// sortByName set, objects, attributes, bindings and list members are sorted
// so two dumps of equivalent scenes compare equal.
func (w *Writer) Show(out io.Writer, sortByName bool) error {
	_, err := io.WriteString(out, w.ShowString("", sortByName))
	return err
}

// ShowString returns the dump written by Show, each line prefixed by hd.
func (w *Writer) ShowString(hd string, sortByName bool) string {
	return w.ShowFiltered(hd, sortByName, nil)
}

// ShowFiltered is ShowString limited to the objects accepted by keep. A nil
// keep accepts every object.
func (w *Writer) ShowFiltered(hd string, sortByName bool, keep func(*rdl2.SceneObject) bool) string {
	var work []string
	for _, obj := range w.ctx.Objects() {
		if keep != nil && !keep(obj) {
			continue
		}
		work = append(work, showSceneObject(obj, hd+"  ", sortByName))
	}
	return showBlock(hd, "sceneContext", work, sortByName)
}

// showBlock renders a named block of entries.
func showBlock(hd, name string, work []string, sortByName bool) string {
	if sortByName {
		sort.Strings(work)
	}
	var b strings.Builder
	b.WriteString(hd + name + " {\n")
	if sortByName {
		b.WriteString(hd + "  == SORTED ==\n")
	}
	for _, s := range work {
		b.WriteString(s + "\n")
	}
	b.WriteString(hd + "}")
	return b.String()
}

func showSceneObject(obj *rdl2.SceneObject, hd string, sortByName bool) string {
	var b strings.Builder
	b.WriteString(hd + "scnObjName:" + obj.Name() + " {\n")
	b.WriteString(hd + "  sceneClass:" + obj.Class().Name() + "\n")

	var attrs, binds []string
	for _, attr := range obj.Class().Attributes() {
		attrs = append(attrs, showAttribute(obj, attr, hd+"    ", sortByName))
		if target := obj.Binding(attr); target != nil {
			binds = append(binds, showBinding(target, attr, hd+"    "))
		}
	}
	b.WriteString(showBlock(hd+"  ", "attributes", attrs, sortByName) + "\n")
	b.WriteString(showBlock(hd+"  ", "bindings", binds, sortByName) + "\n")
	b.WriteString(hd + "}")
	return b.String()
}

func showAttribute(obj *rdl2.SceneObject, attr *rdl2.Attribute, hd string, sortByName bool) string {
	var b strings.Builder
	b.WriteString(hd + "attr name:>" + attr.Name() + "< {\n")
	b.WriteString(hd + "  type:" + attr.Type().String() + "\n")
	fmt.Fprintf(&b, "%s  isBlurrable:%t\n", hd, attr.IsBlurrable())
	last := rdl2.TimestepBegin
	if attr.IsBlurrable() {
		last = rdl2.NumTimesteps - 1
	}
	for ts := rdl2.TimestepBegin; ts <= last; ts++ {
		b.WriteString(showValue(obj, attr, ts, hd+"  ", sortByName) + "\n")
	}
	b.WriteString(hd + "}")
	return b.String()
}

func showValue(obj *rdl2.SceneObject, attr *rdl2.Attribute, ts rdl2.Timestep, hd string, sortByName bool) string {
	prefix, ok := showPrefixes[attr.Type()]
	if !ok {
		return fmt.Sprintf("%stimeStep:%d val:???", hd, ts)
	}
	head := fmt.Sprintf("%stimeStep:%d val:%s:", hd, ts, prefix)
	switch v := obj.Value(attr, ts).(type) {
	case []string:
		items := make([]string, len(v))
		for i, s := range v {
			items[i] = ">" + s + "<"
		}
		return head + " {\n" + showList(items, hd+"  ", "StrVec", sortByName) + "\n" + hd + "}"
	case rdl2.SceneObjectVector:
		return head + " {\n" + showList(formatObjects(v), hd+"  ", "ScnObjVec", sortByName) + "\n" + hd + "}"
	case rdl2.SceneObjectIndexable:
		return head + " {\n" + showList(formatObjects(v), hd+"  ", "ScnObjIndexable", sortByName) + "\n" + hd + "}"
	default:
		if attr.Type().IsVector() {
			return fmt.Sprintf("%ssize:%d %v", head, obj.VectorSize(attr), v)
		}
		return head + formatValue(v)
	}
}

func formatObjects(objs []*rdl2.SceneObject) []string {
	out := make([]string, len(objs))
	for i, o := range objs {
		out[i] = formatObject(o)
	}
	return out
}

// showList renders list members one per line. label names the size line,
// for example "activeStrVecSize:3" or "strVecSize:0".
func showList(items []string, hd, label string, sortByName bool) string {
	if len(items) == 0 {
		return hd + lowerFirst(label) + "Size:0\n"
	}
	if sortByName {
		items = append([]string(nil), items...)
		sort.Strings(items)
	}
	var b strings.Builder
	if sortByName {
		b.WriteString(hd + "== SORTED ==\n")
	}
	fmt.Fprintf(&b, "%sactive%sSize:%d\n", hd, label, len(items))
	for i, s := range items {
		b.WriteString(hd + s)
		if i != len(items)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

func showBinding(target *rdl2.SceneObject, attr *rdl2.Attribute, hd string) string {
	return hd + "attr name:>" + attr.Name() + "< {\n" +
		hd + "  scnClass:>" + target.Class().Name() + "<\n" +
		hd + "  name:>" + target.Name() + "<\n" +
		hd + "}"
}
