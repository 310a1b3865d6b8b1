// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package essl

import (
	"sort"

	"github.com/pkg/errors"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
	"sigs.k8s.io/yaml"
)

// Reflection is the serializable description of a translated shader:
// what a host needs to bind resources and match stages.
type Reflection struct {
	Stage      string `json:"stage"`
	Profile    string `json:"profile"`
	EntryPoint string `json:"entryPoint,omitempty"`

	Uniforms   []UniformReflection  `json:"uniforms,omitempty"`
	Varyings   []VariableReflection `json:"varyings,omitempty"`
	Attributes []VariableReflection `json:"attributes,omitempty"`

	// Registers maps emitted resource names to register operands such as
	// "c4" or "s0".
	Registers map[string]string `json:"registers,omitempty"`

	Helpers  []string `json:"helpers,omitempty"`
	Features string   `json:"features"`
}

// UniformReflection describes one active uniform leaf.
type UniformReflection struct {
	Name        string `json:"name"`
	HLSLName    string `json:"hlslName"`
	TextureName string `json:"textureName,omitempty"`
	Type        string `json:"type"`
	ArraySize   int    `json:"arraySize,omitempty"`
	Precision   string `json:"precision,omitempty"`
	Register    int    `json:"register"`
	StaticUse   bool   `json:"staticUse"`
}

// VariableReflection describes an attribute or varying.
type VariableReflection struct {
	Name      string `json:"name"`
	HLSLName  string `json:"hlslName"`
	Type      string `json:"type"`
	Precision string `json:"precision,omitempty"`
	Location  int    `json:"location"`
	Invariant bool   `json:"invariant,omitempty"`
	StaticUse bool   `json:"staticUse"`
}

// Reflection returns the serializable description of r.
func (r *Result) Reflection() *Reflection {
	ref := &Reflection{
		Stage:     r.Stage.String(),
		Registers: make(map[string]string),
	}
	if r.Info != nil {
		ref.Profile = r.Info.Profile
		ref.EntryPoint = r.Info.EntryPoint
		ref.Features = r.Info.UsedFeatures.String()
		ref.Helpers = append(ref.Helpers, r.Info.HelperFunctions...)
		for name, bt := range r.Info.RegisterBindings {
			ref.Registers[name] = bt.String()
		}
	}
	for _, u := range r.Uniforms {
		ref.Uniforms = append(ref.Uniforms, UniformReflection{
			Name:        u.Name,
			HLSLName:    u.HLSLName,
			TextureName: u.TextureName,
			Type:        u.Type.String(),
			ArraySize:   u.ArraySize,
			Precision:   u.Precision.String(),
			Register:    u.Register,
			StaticUse:   u.StaticUse,
		})
	}
	for _, v := range r.Varyings {
		ref.Varyings = append(ref.Varyings, variableReflection(v.Name, v.HLSLName, v.Type.String(),
			v.Precision.String(), v.Location, v.Invariant, v.StaticUse))
	}
	for _, v := range r.Attributes {
		ref.Attributes = append(ref.Attributes, variableReflection(v.Name, v.HLSLName, v.Type.String(),
			v.Precision.String(), v.Location, v.Invariant, v.StaticUse))
	}
	sort.Slice(ref.Uniforms, func(i, j int) bool { return ref.Uniforms[i].Name < ref.Uniforms[j].Name })
	return ref
}

func variableReflection(name, hlslName, typ, precision string, location int, invariant, used bool) VariableReflection {
	return VariableReflection{
		Name:      name,
		HLSLName:  hlslName,
		Type:      typ,
		Precision: precision,
		Location:  location,
		Invariant: invariant,
		StaticUse: used,
	}
}

// YAML returns the reflection as YAML.
func (r *Result) YAML() ([]byte, error) {
	out, err := yaml.Marshal(r.Reflection())
	return out, errors.Wrap(err, "marshal reflection")
}

// ReflectionStruct returns the reflection as a protobuf Struct, for hosts
// that exchange shader metadata over protobuf.
func (r *Result) ReflectionStruct() (*structpb.Struct, error) {
	y, err := r.YAML()
	if err != nil {
		return nil, err
	}
	j, err := yaml.YAMLToJSON(y)
	if err != nil {
		return nil, errors.Wrap(err, "convert reflection")
	}
	s := &structpb.Struct{}
	if err := protojson.Unmarshal(j, s); err != nil {
		return nil, errors.Wrap(err, "decode reflection")
	}
	return s, nil
}

// ProtoJSON returns the reflection in the protobuf JSON encoding.
func (r *Result) ProtoJSON() ([]byte, error) {
	s, err := r.ReflectionStruct()
	if err != nil {
		return nil, err
	}
	out, err := protojson.MarshalOptions{Multiline: true, Indent: "  "}.Marshal(s)
	return out, errors.Wrap(err, "marshal reflection")
}
