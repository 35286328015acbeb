package stack

import (
	"strconv"
	"strings"
)

// Flags selects which parts of a frame are rendered
type Flags uint8

const (
	ShowMethod Flags = 1 << iota
	ShowFile
	ShowLine
	ShowColumn

	ShowNone Flags = 0
	ShowAll        = ShowMethod | ShowFile | ShowLine | ShowColumn
	// ShowDefault leaves out the column, which the Go runtime never reports
	ShowDefault = ShowMethod | ShowFile | ShowLine
)

// field identifies one renderable part of a frame, in priority order
type field uint8

const (
	fieldNone field = iota
	fieldMethod
	fieldFile
	fieldLine
	fieldColumn
)

var fieldOrder = [...]struct {
	flag  Flags
	field field
}{
	{ShowMethod, fieldMethod},
	{ShowFile, fieldFile},
	{ShowLine, fieldLine},
	{ShowColumn, fieldColumn},
}

// plan is resolved once from the flags: the leading field and the
// lower-priority fields that follow it.
type plan struct {
	lead   field
	follow []field
}

func resolvePlan(flags Flags) plan {
	var p plan
	for _, f := range fieldOrder {
		if flags&f.flag == 0 {
			continue
		}
		if p.lead == fieldNone {
			p.lead = f.field
			continue
		}
		p.follow = append(p.follow, f.field)
	}
	return p
}

// Formatter renders frames as single lines of text.
//
// The leading part of a line is the highest-priority enabled field
// (method > file > line > column); every lower-priority enabled field is
// appended after it with its separator.
type Formatter struct {
	LinePrefix      string
	TypeSeparator   string
	FileSeparator   string
	LineSeparator   string
	ColumnSeparator string
	LineLabel       string
	ColumnLabel     string

	flags Flags
	plan  plan
}

// NewFormatter creates a Formatter with the default separators
func NewFormatter(flags Flags) *Formatter {
	f := &Formatter{
		LinePrefix:      "   at ",
		TypeSeparator:   nestedSeparator,
		FileSeparator:   " in ",
		LineSeparator:   ":",
		ColumnSeparator: ":",
		LineLabel:       "line ",
		ColumnLabel:     "col ",
	}
	f.SetFlags(flags)
	return f
}

// Flags returns the enabled frame parts
func (f *Formatter) Flags() Flags {
	return f.flags
}

// SetFlags changes the enabled frame parts
func (f *Formatter) SetFlags(flags Flags) {
	f.flags = flags & ShowAll
	f.plan = resolvePlan(f.flags)
}

// Format renders one frame. It returns "" when no part is enabled.
func (f *Formatter) Format(frame Frame) string {
	if f.plan.lead == fieldNone {
		return ""
	}

	var b strings.Builder
	b.WriteString(f.LinePrefix)
	f.writeField(&b, f.plan.lead, frame, true)
	for _, fld := range f.plan.follow {
		f.writeField(&b, fld, frame, false)
	}
	return b.String()
}

// FormatFrames renders up to max frames (all when max <= 0), one per line
func (f *Formatter) FormatFrames(frames []Frame, max int) string {
	if max > 0 && len(frames) > max {
		frames = frames[:max]
	}
	lines := make([]string, 0, len(frames))
	for _, fr := range frames {
		if line := f.Format(fr); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}

func (f *Formatter) writeField(b *strings.Builder, fld field, frame Frame, leading bool) {
	switch fld {
	case fieldMethod:
		f.writeMethod(b, frame.Method)
	case fieldFile:
		file := frameFile(frame)
		if !leading {
			if file == "" {
				return
			}
			b.WriteString(f.FileSeparator)
		}
		b.WriteString(file)
	case fieldLine:
		if !leading {
			b.WriteString(f.LineSeparator)
		}
		b.WriteString(f.LineLabel)
		b.WriteString(strconv.Itoa(frame.Line))
	case fieldColumn:
		if !leading {
			b.WriteString(f.ColumnSeparator)
		}
		b.WriteString(f.ColumnLabel)
		b.WriteString(strconv.Itoa(frame.Column))
	}
}

// MethodText renders the method part of a frame on its own
func (f *Formatter) MethodText(m Method) string {
	var b strings.Builder
	f.writeMethod(&b, m)
	return b.String()
}

func (f *Formatter) writeMethod(b *strings.Builder, m Method) {
	if m.Package != "" {
		b.WriteString(m.Package)
		b.WriteByte('.')
	}
	if m.Type != "" {
		b.WriteString(strings.ReplaceAll(m.Type, nestedSeparator, f.TypeSeparator))
		b.WriteByte('.')
	}
	b.WriteString(m.Name)

	if len(m.GenericArgs) > 0 {
		b.WriteByte('[')
		b.WriteString(strings.Join(m.GenericArgs, ", "))
		b.WriteByte(']')
	}

	b.WriteByte('(')
	for i, p := range m.Params {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(p.Type)
		if p.Name != "" {
			b.WriteByte(' ')
			b.WriteString(p.Name)
		}
	}
	b.WriteByte(')')
}

// frameFile never fails; frames without symbol information have no file.
func frameFile(frame Frame) string {
	if frame.File == "?" {
		return ""
	}
	return frame.File
}
