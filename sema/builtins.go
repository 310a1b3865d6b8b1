// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package sema

import (
	"github.com/gogpu/essl/ast"
	"github.com/gogpu/essl/types"
)

// BuiltinID identifies a builtin function; the emitter maps it to HLSL.
type BuiltinID uint8

const (
	BuiltinNone BuiltinID = iota

	// Angle and trigonometry
	BuiltinRadians
	BuiltinDegrees
	BuiltinSin
	BuiltinCos
	BuiltinTan
	BuiltinAsin
	BuiltinAcos
	BuiltinAtan

	// Exponential
	BuiltinPow
	BuiltinExp
	BuiltinLog
	BuiltinExp2
	BuiltinLog2
	BuiltinSqrt
	BuiltinInversesqrt

	// Common
	BuiltinAbs
	BuiltinSign
	BuiltinFloor
	BuiltinCeil
	BuiltinFract
	BuiltinMod
	BuiltinMin
	BuiltinMax
	BuiltinClamp
	BuiltinMix
	BuiltinStep
	BuiltinSmoothstep

	// Geometric
	BuiltinLength
	BuiltinDistance
	BuiltinDot
	BuiltinCross
	BuiltinNormalize
	BuiltinFaceforward
	BuiltinReflect
	BuiltinRefract

	// Matrix and vector relational
	BuiltinMatrixCompMult
	BuiltinLessThan
	BuiltinLessThanEqual
	BuiltinGreaterThan
	BuiltinGreaterThanEqual
	BuiltinEqual
	BuiltinNotEqual
	BuiltinAny
	BuiltinAll
	BuiltinNot

	// Texture lookup
	BuiltinTexture2D
	BuiltinTexture2DProj
	BuiltinTexture2DLod
	BuiltinTexture2DProjLod
	BuiltinTextureCube
	BuiltinTextureCubeLod

	// Derivatives
	BuiltinDFdx
	BuiltinDFdy
	BuiltinFwidth

	numBuiltins
)

// IsTexture reports whether b samples a texture.
func (b BuiltinID) IsTexture() bool {
	return b >= BuiltinTexture2D && b <= BuiltinTextureCubeLod
}

type builtinFunction struct {
	id   BuiltinID
	name string
	sigs []Signature

	stage     StageMask
	extension string

	// fold marks functions whose calls with constant arguments are
	// constant expressions.
	fold bool
}

func basic(tok types.Token) types.Type { return types.NewBasic(tok) }

func exact(tok types.Token) ParamSpec {
	return ParamSpec{Category: CatExact, Type: basic(tok)}
}

func generic(c ParamCategory) ParamSpec { return ParamSpec{Category: c} }

var (
	genType = generic(CatGenType)
	genVec  = generic(CatGenVec)
	anyVec  = generic(CatAnyVec)
	boolVec = generic(CatBoolVec)
	genMat  = generic(CatMat)
	float1  = exact(types.Float)
)

// gen builds a signature returning the bound generic type.
func gen(params ...ParamSpec) Signature {
	return Signature{Params: params, Rule: RetGeneric}
}

// ret builds a signature with an exact return type.
func ret(tok types.Token, params ...ParamSpec) Signature {
	return Signature{Params: params, Return: basic(tok), Rule: RetExact}
}

func fragmentOnly(s Signature) Signature {
	s.Stage = StageMaskFragment
	return s
}

func vertexOnly(s Signature) Signature {
	s.Stage = StageMaskVertex
	return s
}

// builtinFunctions is the GLSL ES 1.00 function library.
var builtinFunctions = []builtinFunction{
	{id: BuiltinRadians, name: "radians", sigs: []Signature{gen(genType)}, fold: true},
	{id: BuiltinDegrees, name: "degrees", sigs: []Signature{gen(genType)}, fold: true},
	{id: BuiltinSin, name: "sin", sigs: []Signature{gen(genType)}, fold: true},
	{id: BuiltinCos, name: "cos", sigs: []Signature{gen(genType)}, fold: true},
	{id: BuiltinTan, name: "tan", sigs: []Signature{gen(genType)}, fold: true},
	{id: BuiltinAsin, name: "asin", sigs: []Signature{gen(genType)}, fold: true},
	{id: BuiltinAcos, name: "acos", sigs: []Signature{gen(genType)}, fold: true},
	{id: BuiltinAtan, name: "atan", sigs: []Signature{gen(genType, genType), gen(genType)}, fold: true},

	{id: BuiltinPow, name: "pow", sigs: []Signature{gen(genType, genType)}, fold: true},
	{id: BuiltinExp, name: "exp", sigs: []Signature{gen(genType)}, fold: true},
	{id: BuiltinLog, name: "log", sigs: []Signature{gen(genType)}, fold: true},
	{id: BuiltinExp2, name: "exp2", sigs: []Signature{gen(genType)}, fold: true},
	{id: BuiltinLog2, name: "log2", sigs: []Signature{gen(genType)}, fold: true},
	{id: BuiltinSqrt, name: "sqrt", sigs: []Signature{gen(genType)}, fold: true},
	{id: BuiltinInversesqrt, name: "inversesqrt", sigs: []Signature{gen(genType)}, fold: true},

	{id: BuiltinAbs, name: "abs", sigs: []Signature{gen(genType)}, fold: true},
	{id: BuiltinSign, name: "sign", sigs: []Signature{gen(genType)}, fold: true},
	{id: BuiltinFloor, name: "floor", sigs: []Signature{gen(genType)}, fold: true},
	{id: BuiltinCeil, name: "ceil", sigs: []Signature{gen(genType)}, fold: true},
	{id: BuiltinFract, name: "fract", sigs: []Signature{gen(genType)}, fold: true},
	{id: BuiltinMod, name: "mod", sigs: []Signature{gen(genType, genType), gen(genType, float1)}, fold: true},
	{id: BuiltinMin, name: "min", sigs: []Signature{gen(genType, genType), gen(genType, float1)}, fold: true},
	{id: BuiltinMax, name: "max", sigs: []Signature{gen(genType, genType), gen(genType, float1)}, fold: true},
	{id: BuiltinClamp, name: "clamp", sigs: []Signature{
		gen(genType, genType, genType),
		gen(genType, float1, float1),
	}, fold: true},
	{id: BuiltinMix, name: "mix", sigs: []Signature{
		gen(genType, genType, genType),
		gen(genType, genType, float1),
	}, fold: true},
	{id: BuiltinStep, name: "step", sigs: []Signature{gen(genType, genType), gen(float1, genType)}, fold: true},
	{id: BuiltinSmoothstep, name: "smoothstep", sigs: []Signature{
		gen(genType, genType, genType),
		gen(float1, float1, genType),
	}, fold: true},

	{id: BuiltinLength, name: "length", sigs: []Signature{{Params: []ParamSpec{genType}, Return: basic(types.Float)}}, fold: true},
	{id: BuiltinDistance, name: "distance", sigs: []Signature{{Params: []ParamSpec{genType, genType}, Return: basic(types.Float)}}, fold: true},
	{id: BuiltinDot, name: "dot", sigs: []Signature{{Params: []ParamSpec{genType, genType}, Return: basic(types.Float)}}, fold: true},
	{id: BuiltinCross, name: "cross", sigs: []Signature{ret(types.Vec3, exact(types.Vec3), exact(types.Vec3))}, fold: true},
	{id: BuiltinNormalize, name: "normalize", sigs: []Signature{gen(genType)}, fold: true},
	{id: BuiltinFaceforward, name: "faceforward", sigs: []Signature{gen(genType, genType, genType)}, fold: true},
	{id: BuiltinReflect, name: "reflect", sigs: []Signature{gen(genType, genType)}, fold: true},
	{id: BuiltinRefract, name: "refract", sigs: []Signature{gen(genType, genType, float1)}, fold: true},

	{id: BuiltinMatrixCompMult, name: "matrixCompMult", sigs: []Signature{gen(genMat, genMat)}, fold: true},
	{id: BuiltinLessThan, name: "lessThan", sigs: []Signature{{Params: []ParamSpec{genVec, genVec}, Rule: RetBoolVec}}, fold: true},
	{id: BuiltinLessThanEqual, name: "lessThanEqual", sigs: []Signature{{Params: []ParamSpec{genVec, genVec}, Rule: RetBoolVec}}, fold: true},
	{id: BuiltinGreaterThan, name: "greaterThan", sigs: []Signature{{Params: []ParamSpec{genVec, genVec}, Rule: RetBoolVec}}, fold: true},
	{id: BuiltinGreaterThanEqual, name: "greaterThanEqual", sigs: []Signature{{Params: []ParamSpec{genVec, genVec}, Rule: RetBoolVec}}, fold: true},
	{id: BuiltinEqual, name: "equal", sigs: []Signature{{Params: []ParamSpec{anyVec, anyVec}, Rule: RetBoolVec}}, fold: true},
	{id: BuiltinNotEqual, name: "notEqual", sigs: []Signature{{Params: []ParamSpec{anyVec, anyVec}, Rule: RetBoolVec}}, fold: true},
	{id: BuiltinAny, name: "any", sigs: []Signature{{Params: []ParamSpec{boolVec}, Return: basic(types.Bool)}}, fold: true},
	{id: BuiltinAll, name: "all", sigs: []Signature{{Params: []ParamSpec{boolVec}, Return: basic(types.Bool)}}, fold: true},
	{id: BuiltinNot, name: "not", sigs: []Signature{gen(boolVec)}, fold: true},

	{id: BuiltinTexture2D, name: "texture2D", sigs: []Signature{
		ret(types.Vec4, exact(types.Sampler2D), exact(types.Vec2)),
		fragmentOnly(ret(types.Vec4, exact(types.Sampler2D), exact(types.Vec2), float1)),
	}},
	{id: BuiltinTexture2DProj, name: "texture2DProj", sigs: []Signature{
		ret(types.Vec4, exact(types.Sampler2D), exact(types.Vec3)),
		ret(types.Vec4, exact(types.Sampler2D), exact(types.Vec4)),
		fragmentOnly(ret(types.Vec4, exact(types.Sampler2D), exact(types.Vec3), float1)),
		fragmentOnly(ret(types.Vec4, exact(types.Sampler2D), exact(types.Vec4), float1)),
	}},
	{id: BuiltinTexture2DLod, name: "texture2DLod", stage: StageMaskVertex, sigs: []Signature{
		vertexOnly(ret(types.Vec4, exact(types.Sampler2D), exact(types.Vec2), float1)),
	}},
	{id: BuiltinTexture2DProjLod, name: "texture2DProjLod", stage: StageMaskVertex, sigs: []Signature{
		vertexOnly(ret(types.Vec4, exact(types.Sampler2D), exact(types.Vec3), float1)),
		vertexOnly(ret(types.Vec4, exact(types.Sampler2D), exact(types.Vec4), float1)),
	}},
	{id: BuiltinTextureCube, name: "textureCube", sigs: []Signature{
		ret(types.Vec4, exact(types.SamplerCube), exact(types.Vec3)),
		fragmentOnly(ret(types.Vec4, exact(types.SamplerCube), exact(types.Vec3), float1)),
	}},
	{id: BuiltinTextureCubeLod, name: "textureCubeLod", stage: StageMaskVertex, sigs: []Signature{
		vertexOnly(ret(types.Vec4, exact(types.SamplerCube), exact(types.Vec3), float1)),
	}},

	{id: BuiltinDFdx, name: "dFdx", stage: StageMaskFragment, extension: ExtStandardDerivatives, sigs: []Signature{gen(genType)}},
	{id: BuiltinDFdy, name: "dFdy", stage: StageMaskFragment, extension: ExtStandardDerivatives, sigs: []Signature{gen(genType)}},
	{id: BuiltinFwidth, name: "fwidth", stage: StageMaskFragment, extension: ExtStandardDerivatives, sigs: []Signature{gen(genType)}},
}

// builtinVariable is a gl_ variable or constant.
type builtinVariable struct {
	name      string
	typ       types.Type
	precision types.Precision
	storage   ast.Storage
	stage     StageMask
	readOnly  bool
	extension string

	// limit returns the value of a gl_Max constant.
	limit func(Limits) int
}

// DepthRangeName is the type name of gl_DepthRange.
const DepthRangeName = "gl_DepthRangeParameters"

// newDepthRangeStruct returns a fresh gl_DepthRangeParameters type; usage
// flags are per shader so each context gets its own.
func newDepthRangeStruct() *types.Struct {
	return &types.Struct{
		Name: DepthRangeName,
		Fields: []types.Field{
			{Name: "near", Type: basic(types.Float), Precision: types.PrecisionHigh},
			{Name: "far", Type: basic(types.Float), Precision: types.PrecisionHigh},
			{Name: "diff", Type: basic(types.Float), Precision: types.PrecisionHigh},
		},
	}
}

func fragData() types.Type {
	t, _ := types.WrapArray(basic(types.Vec4), 1)
	return t
}

func limitConst(name string, limit func(Limits) int) builtinVariable {
	return builtinVariable{
		name:      name,
		typ:       basic(types.Int),
		precision: types.PrecisionMedium,
		storage:   ast.StorageConst,
		limit:     limit,
	}
}

var builtinVariables = []builtinVariable{
	{name: "gl_Position", typ: basic(types.Vec4), precision: types.PrecisionHigh, stage: StageMaskVertex},
	{name: "gl_PointSize", typ: basic(types.Float), precision: types.PrecisionMedium, stage: StageMaskVertex},
	{name: "gl_FragCoord", typ: basic(types.Vec4), precision: types.PrecisionMedium, stage: StageMaskFragment, readOnly: true},
	{name: "gl_FrontFacing", typ: basic(types.Bool), stage: StageMaskFragment, readOnly: true},
	{name: "gl_PointCoord", typ: basic(types.Vec2), precision: types.PrecisionMedium, stage: StageMaskFragment, readOnly: true},
	{name: "gl_FragColor", typ: basic(types.Vec4), precision: types.PrecisionMedium, stage: StageMaskFragment},
	{name: "gl_FragData", typ: fragData(), precision: types.PrecisionMedium, stage: StageMaskFragment},
	{name: "gl_FragDepthEXT", typ: basic(types.Float), precision: types.PrecisionHigh, stage: StageMaskFragment, extension: ExtFragDepth},
	{name: "gl_DepthRange", storage: ast.StorageUniform},

	limitConst("gl_MaxVertexAttribs", func(l Limits) int { return l.MaxVertexAttribs }),
	limitConst("gl_MaxVertexUniformVectors", func(l Limits) int { return l.MaxVertexUniformVectors }),
	limitConst("gl_MaxVaryingVectors", func(l Limits) int { return l.MaxVaryingVectors }),
	limitConst("gl_MaxVertexTextureImageUnits", func(l Limits) int { return l.MaxVertexTextureImageUnits }),
	limitConst("gl_MaxCombinedTextureImageUnits", func(l Limits) int { return l.MaxCombinedTextureImageUnits }),
	limitConst("gl_MaxTextureImageUnits", func(l Limits) int { return l.MaxTextureImageUnits }),
	limitConst("gl_MaxFragmentUniformVectors", func(l Limits) int { return l.MaxFragmentUniformVectors }),
	limitConst("gl_MaxDrawBuffers", func(l Limits) int { return l.MaxDrawBuffers }),
}

// builtinNames lists every builtin name in seeding order.
func builtinNames() []string {
	names := make([]string, 0, len(builtinFunctions)+len(builtinVariables)+1)
	for _, f := range builtinFunctions {
		names = append(names, f.name)
	}
	names = append(names, DepthRangeName)
	for _, v := range builtinVariables {
		names = append(names, v.name)
	}
	return names
}

// BuiltinName returns the GLSL name of a builtin function.
func BuiltinName(id BuiltinID) string {
	for _, f := range builtinFunctions {
		if f.id == id {
			return f.name
		}
	}
	return ""
}

// declareBuiltins fills the builtin scope for the context's stage and
// options.
func (c *Context) declareBuiltins() {
	scope := c.builtinScope
	for _, f := range builtinFunctions {
		if !f.stage.Allows(c.Options.Stage) {
			continue
		}
		if f.extension == ExtStandardDerivatives && !c.Options.Derivatives {
			continue
		}
		info := &FunctionInfo{
			infoBase:   infoBase{sym: c.Symbols.Intern(f.name), scope: BuiltinScope, builtin: true},
			Builtin:    f.id,
			Extension:  f.extension,
			Defined:    true,
			Definition: ast.InvalidHandle,
			FirstCall:  ast.InvalidHandle,
		}
		for _, s := range f.sigs {
			if s.Stage.Allows(c.Options.Stage) {
				info.Signatures = append(info.Signatures, s)
			}
		}
		scope.Add(c.Registry.Add(info))
	}

	depthRange := &TypeNameInfo{
		infoBase: infoBase{sym: c.Symbols.Intern(DepthRangeName), scope: BuiltinScope, builtin: true},
		Struct:   newDepthRangeStruct(),
		GenName:  DepthRangeName,
		Decl:     ast.InvalidHandle,
	}
	id := c.Registry.Add(depthRange)
	depthRange.Struct.ID = int(id)
	scope.Add(id)
	c.DepthRange = depthRange

	for _, b := range builtinVariables {
		if !b.stage.Allows(c.Options.Stage) {
			continue
		}
		if b.extension == ExtFragDepth && !c.Options.FragDepth {
			continue
		}
		typ := b.typ
		if typ == nil {
			typ = depthRange.Struct
		}
		v := &VariableInfo{
			infoBase:  infoBase{sym: c.Symbols.Intern(b.name), scope: BuiltinScope, builtin: true},
			Type:      typ,
			Storage:   b.storage,
			Precision: b.precision,
			Names:     [2]string{b.name},
			ReadOnly:  b.readOnly,
			Extension: b.extension,
			Register:  -1,
			Location:  -1,
			Loop:      ast.InvalidHandle,
			Decl:      ast.InvalidHandle,
		}
		if b.limit != nil {
			v.Const = types.IntValue(int32(b.limit(c.Limits)))
		}
		scope.Add(c.Registry.Add(v))
	}
}

// builtinFolds reports whether calls to id with constant arguments are
// constant expressions.
func builtinFolds(id BuiltinID) bool {
	for _, f := range builtinFunctions {
		if f.id == id {
			return f.fold
		}
	}
	return false
}
