package shader

import (
	_ "embed"
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/naga"
	"github.com/gogpu/naga/ir"
)

//go:embed solid.wgsl
var solidShaderSource string

// Entry point names in the solid program.
const (
	VertexEntryPoint   = "vs_main"
	FragmentEntryPoint = "fs_main"
)

// Validation errors, reported at pipeline-creation time.
var (
	// ErrEmptySource is returned for an empty WGSL source.
	ErrEmptySource = errors.New("shader: source is empty")

	// ErrBindingMismatch is returned when the shader's resource bindings
	// differ from Contract.
	ErrBindingMismatch = errors.New("shader: resource bindings do not match contract")

	// ErrMissingEntryPoint is returned when vs_main or fs_main is absent.
	ErrMissingEntryPoint = errors.New("shader: missing entry point")
)

// Contract is the complete binding boundary of the solid program.
//
// Host code builds its bind group layout, vertex buffer layout and color
// target from these values; Validate checks a WGSL source against them.
var Contract = struct {
	UniformGroup   uint32
	UniformBinding uint32
	UniformSize    uint64

	PositionLocation uint32
	PositionFormat   gputypes.VertexFormat
	VertexStride     uint64

	ColorLocation uint32
}{
	UniformGroup:   0,
	UniformBinding: 0,
	UniformSize:    128,

	PositionLocation: 0,
	PositionFormat:   gputypes.VertexFormatFloat32x3,
	VertexStride:     12,

	ColorLocation: 0,
}

// Source returns the embedded WGSL source of the solid program.
func Source() string {
	return solidShaderSource
}

// BindGroupLayoutEntries returns the layout of bind group 0: a single
// uniform buffer visible to the vertex stage with a 128-byte minimum size.
func BindGroupLayoutEntries() []gputypes.BindGroupLayoutEntry {
	return []gputypes.BindGroupLayoutEntry{
		{
			Binding:    Contract.UniformBinding,
			Visibility: gputypes.ShaderStageVertex,
			Buffer: &gputypes.BufferBindingLayout{
				Type:           gputypes.BufferBindingTypeUniform,
				MinBindingSize: Contract.UniformSize,
			},
		},
	}
}

// VertexBufferLayouts returns the vertex buffer layout: one tightly packed
// vec3<f32> position per vertex at location 0.
func VertexBufferLayouts() []gputypes.VertexBufferLayout {
	return []gputypes.VertexBufferLayout{
		{
			ArrayStride: Contract.VertexStride,
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes: []gputypes.VertexAttribute{
				{Format: Contract.PositionFormat, Offset: 0, ShaderLocation: Contract.PositionLocation}, // position
			},
		},
	}
}

// WGSL spellings of the types the contract expects.
const (
	mat4Type     = "mat4x4<f32>"
	positionType = "vec3<f32>"
	colorType    = "vec4<f32>"
)

// Binding is a resource binding declared by a shader.
type Binding struct {
	Name    string
	Group   uint32
	Binding uint32

	// Size is the byte size of the bound type, Members the WGSL types of
	// its struct members in declaration order (nil for non-struct types).
	Size    uint64
	Members []string
}

// Attribute is a user-defined input or output of an entry point.
type Attribute struct {
	Name     string
	Location uint32
	Type     string
}

// Reflection is what Reflect extracts from a WGSL module.
type Reflection struct {
	Bindings    []Binding
	EntryPoints []string

	// VertexInputs are the @location arguments of vs_main, FragmentOutputs
	// the @location results of fs_main. Builtins are not listed.
	VertexInputs    []Attribute
	FragmentOutputs []Attribute
}

// HasEntryPoint reports whether the module declares the named entry point.
func (r *Reflection) HasEntryPoint(name string) bool {
	for _, ep := range r.EntryPoints {
		if ep == name {
			return true
		}
	}
	return false
}

// Reflect parses and lowers a WGSL source with naga and returns its
// resource bindings, entry points and stage interface.
func Reflect(source string) (*Reflection, error) {
	if source == "" {
		return nil, ErrEmptySource
	}
	ast, err := naga.Parse(source)
	if err != nil {
		return nil, fmt.Errorf("shader: parse: %w", err)
	}
	module, err := naga.Lower(ast)
	if err != nil {
		return nil, fmt.Errorf("shader: lower: %w", err)
	}

	r := &Reflection{}
	for _, gv := range module.GlobalVariables {
		if gv.Binding == nil {
			continue
		}
		b := Binding{
			Name:    gv.Name,
			Group:   gv.Binding.Group,
			Binding: gv.Binding.Binding,
			Size:    uint64(ir.TypeSize(module, gv.Type)),
		}
		if st, ok := typeInner(module, gv.Type).(ir.StructType); ok {
			for _, m := range st.Members {
				b.Members = append(b.Members, typeName(module, m.Type))
			}
		}
		r.Bindings = append(r.Bindings, b)
	}
	for i := range module.EntryPoints {
		ep := &module.EntryPoints[i]
		r.EntryPoints = append(r.EntryPoints, ep.Name)
		switch ep.Name {
		case VertexEntryPoint:
			for _, arg := range ep.Function.Arguments {
				r.VertexInputs = appendAttributes(r.VertexInputs, module, arg.Name, arg.Type, arg.Binding)
			}
		case FragmentEntryPoint:
			if res := ep.Function.Result; res != nil {
				r.FragmentOutputs = appendAttributes(r.FragmentOutputs, module, "", res.Type, res.Binding)
			}
		}
	}
	return r, nil
}

// appendAttributes appends the @location attribute carried by a value, or
// by the members of a struct value without a binding of its own.
func appendAttributes(dst []Attribute, module *ir.Module, name string, ty ir.TypeHandle, binding *ir.Binding) []Attribute {
	if binding != nil {
		if loc, ok := (*binding).(ir.LocationBinding); ok {
			dst = append(dst, Attribute{Name: name, Location: loc.Location, Type: typeName(module, ty)})
		}
		return dst
	}
	if st, ok := typeInner(module, ty).(ir.StructType); ok {
		for _, m := range st.Members {
			dst = appendAttributes(dst, module, m.Name, m.Type, m.Binding)
		}
	}
	return dst
}

func typeInner(module *ir.Module, h ir.TypeHandle) ir.TypeInner {
	if int(h) >= len(module.Types) {
		return nil
	}
	return module.Types[h].Inner
}

// typeName spells scalar, vector and matrix types the way WGSL does.
// Other types are reported by their declared name.
func typeName(module *ir.Module, h ir.TypeHandle) string {
	switch t := typeInner(module, h).(type) {
	case ir.ScalarType:
		return scalarName(t)
	case ir.VectorType:
		return fmt.Sprintf("vec%d<%s>", t.Size, scalarName(t.Scalar))
	case ir.MatrixType:
		return fmt.Sprintf("mat%dx%d<%s>", t.Columns, t.Rows, scalarName(t.Scalar))
	case nil:
		return "?"
	default:
		if name := module.Types[h].Name; name != "" {
			return name
		}
		return fmt.Sprintf("%T", t)
	}
}

func scalarName(s ir.ScalarType) string {
	var prefix string
	switch s.Kind {
	case ir.ScalarFloat:
		prefix = "f"
	case ir.ScalarSint:
		prefix = "i"
	case ir.ScalarUint:
		prefix = "u"
	case ir.ScalarBool:
		return "bool"
	default:
		return "abstract"
	}
	return fmt.Sprintf("%s%d", prefix, int(s.Width)*8)
}

// Validate checks source against Contract: exactly one resource binding,
// the uniform block layout, both entry points and their interfaces.
func Validate(source string) error {
	r, err := Reflect(source)
	if err != nil {
		return err
	}
	return r.Check()
}

// Check compares a reflection against Contract.
func (r *Reflection) Check() error {
	if len(r.Bindings) != 1 {
		return fmt.Errorf("%w: want 1 binding, found %d", ErrBindingMismatch, len(r.Bindings))
	}
	b := r.Bindings[0]
	if b.Group != Contract.UniformGroup || b.Binding != Contract.UniformBinding {
		return fmt.Errorf("%w: %q at group %d binding %d, want group %d binding %d",
			ErrBindingMismatch, b.Name, b.Group, b.Binding, Contract.UniformGroup, Contract.UniformBinding)
	}
	if b.Size != Contract.UniformSize {
		return fmt.Errorf("%w: %q is %d bytes, want %d", ErrBindingMismatch, b.Name, b.Size, Contract.UniformSize)
	}
	if len(b.Members) != 2 || b.Members[0] != mat4Type || b.Members[1] != mat4Type {
		return fmt.Errorf("%w: %q members %v, want [%s %s]", ErrBindingMismatch, b.Name, b.Members, mat4Type, mat4Type)
	}

	for _, name := range []string{VertexEntryPoint, FragmentEntryPoint} {
		if !r.HasEntryPoint(name) {
			return fmt.Errorf("%w: %s", ErrMissingEntryPoint, name)
		}
	}

	if err := checkAttributes("vertex input", r.VertexInputs, Contract.PositionLocation, positionType); err != nil {
		return err
	}
	return checkAttributes("fragment output", r.FragmentOutputs, Contract.ColorLocation, colorType)
}

func checkAttributes(kind string, attrs []Attribute, location uint32, typ string) error {
	if len(attrs) != 1 {
		return fmt.Errorf("%w: want 1 %s, found %d", ErrBindingMismatch, kind, len(attrs))
	}
	a := attrs[0]
	if a.Location != location || a.Type != typ {
		return fmt.Errorf("%w: %s @location(%d) %s, want @location(%d) %s",
			ErrBindingMismatch, kind, a.Location, a.Type, location, typ)
	}
	return nil
}

// CompileSPIRV compiles a WGSL source to SPIR-V words with naga.
// SPIR-V is a stream of little-endian 32-bit words.
func CompileSPIRV(source string) ([]uint32, error) {
	if source == "" {
		return nil, ErrEmptySource
	}
	spirvBytes, err := naga.Compile(source)
	if err != nil {
		return nil, fmt.Errorf("shader: compile: %w", err)
	}
	if len(spirvBytes)%4 != 0 {
		return nil, fmt.Errorf("shader: SPIR-V length %d is not a multiple of 4", len(spirvBytes))
	}

	words := make([]uint32, len(spirvBytes)/4)
	for i := range words {
		words[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}
	return words, nil
}
