package main

import (
	"fmt"
	"os"

	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"

	"github.com/sunholo/variance/internal/ast"
	"github.com/sunholo/variance/internal/explain"
	"github.com/sunholo/variance/internal/hacktype"
	"github.com/sunholo/variance/internal/polarity"
	"github.com/sunholo/variance/internal/tenv"
)

// program is the YAML shape `check` loads: an already-resolved batch of
// class and typedef declarations. There is no name resolution here — type
// strings are parsed structurally (internal/explain's notation parser) and
// nominal references are left for the oracle to resolve at check time,
// exactly like a real tenv.TEnv would hand them to the checker.
type program struct {
	Classes  []yamlClass   `yaml:"classes"`
	Typedefs []yamlTypedef `yaml:"typedefs"`
}

type yamlTParam struct {
	Name     string `yaml:"name"`
	Variance string `yaml:"variance"`
}

type yamlProperty struct {
	Name       string `yaml:"name"`
	Visibility string `yaml:"visibility"`
	Static     bool   `yaml:"static"`
	Type       string `yaml:"type"`
}

type yamlMethod struct {
	Name       string `yaml:"name"`
	Visibility string `yaml:"visibility"`
	Static     bool   `yaml:"static"`
	Final      bool   `yaml:"final"`
	Type       string `yaml:"type"`
}

type yamlClass struct {
	Name       string          `yaml:"name"`
	Final      bool            `yaml:"final"`
	Kind       string          `yaml:"kind"`
	TParams    []yamlTParam    `yaml:"tparams"`
	Parents    []string        `yaml:"parents"`
	Properties []yamlProperty  `yaml:"properties"`
	Methods    []yamlMethod    `yaml:"methods"`
}

type yamlTypedef struct {
	Name    string       `yaml:"name"`
	TParams []yamlTParam `yaml:"tparams"`
	Body    string       `yaml:"body"`
}

// loadedClass pairs a tenv.ClassInfo with the already-parsed parent types
// CheckClass needs as a separate argument (§4.8's check_class signature
// keeps parents out of the class handle itself).
type loadedClass struct {
	info    *tenv.ClassInfo
	parents []hacktype.Type
}

// loadProgram reads and decodes a YAML program file into a tenv.MemTEnv plus
// the per-class parent lists CheckClass needs.
func loadProgram(path string) (*tenv.MemTEnv, []*loadedClass, []*tenv.TypedefInfo, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var p program
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, nil, nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	env := tenv.NewMemTEnv()
	var classes []*loadedClass
	var typedefs []*tenv.TypedefInfo

	for _, yc := range p.Classes {
		lc, err := buildClass(yc)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("class %s: %w", yc.Name, err)
		}
		env.AddClass(lc.info)
		classes = append(classes, lc)
	}

	for _, yt := range p.Typedefs {
		td, err := buildTypedef(yt)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("typedef %s: %w", yt.Name, err)
		}
		env.AddTypedef(td)
		typedefs = append(typedefs, td)
	}

	return env, classes, typedefs, nil
}

func normalize(s string) string {
	return norm.NFC.String(s)
}

func tparamScope(tps []yamlTParam) map[string]bool {
	scope := make(map[string]bool, len(tps))
	for _, tp := range tps {
		scope[normalize(tp.Name)] = true
	}
	return scope
}

func buildTParams(tps []yamlTParam) ([]tenv.TParamDecl, error) {
	out := make([]tenv.TParamDecl, len(tps))
	for i, tp := range tps {
		annot, err := parseVariance(tp.Variance)
		if err != nil {
			return nil, fmt.Errorf("tparam %s: %w", tp.Name, err)
		}
		out[i] = tenv.TParamDecl{Name: normalize(tp.Name), Variance: annot}
	}
	return out, nil
}

func parseVariance(s string) (polarity.Annotation, error) {
	switch s {
	case "+", "covariant":
		return polarity.AnnotationCovariant, nil
	case "-", "contravariant":
		return polarity.AnnotationContravariant, nil
	case "", "inv", "invariant":
		return polarity.AnnotationInvariant, nil
	default:
		return 0, fmt.Errorf("unknown variance %q", s)
	}
}

func parseVisibility(s string) tenv.Visibility {
	if s == "private" {
		return tenv.Private
	}
	return tenv.Public
}

func parseKind(s string) tenv.Kind {
	switch s {
	case "interface":
		return tenv.KindInterface
	case "trait":
		return tenv.KindTrait
	default:
		return tenv.KindClass
	}
}

func buildClass(yc yamlClass) (*loadedClass, error) {
	tparams, err := buildTParams(yc.TParams)
	if err != nil {
		return nil, err
	}
	scope := tparamScope(yc.TParams)
	name := normalize(yc.Name)

	info := &tenv.ClassInfo{
		NameVal: name,
		Pos:     ast.Pos{File: yc.Name, Line: 1},
		Final:   yc.Final,
		Kind:    parseKind(yc.Kind),
		TParams: tparams,
	}

	for _, yp := range yc.Properties {
		t, err := explain.ParseType(yp.Type, scope)
		if err != nil {
			return nil, fmt.Errorf("property %s: %w", yp.Name, err)
		}
		info.Properties = append(info.Properties, tenv.PropertyInfo{
			Name:       normalize(yp.Name),
			Visibility: parseVisibility(yp.Visibility),
			Static:     yp.Static,
			Type:       func() hacktype.Type { return t },
		})
	}

	for _, ym := range yc.Methods {
		t, err := explain.ParseType(ym.Type, scope)
		if err != nil {
			return nil, fmt.Errorf("method %s: %w", ym.Name, err)
		}
		info.Methods = append(info.Methods, tenv.MethodInfo{
			Name:       normalize(ym.Name),
			Visibility: parseVisibility(ym.Visibility),
			Static:     ym.Static,
			Final:      ym.Final,
			Type:       func() hacktype.Type { return t },
		})
	}

	var parents []hacktype.Type
	for _, ps := range yc.Parents {
		t, err := explain.ParseType(ps, scope)
		if err != nil {
			return nil, fmt.Errorf("parent %q: %w", ps, err)
		}
		parents = append(parents, t)
	}

	return &loadedClass{info: info, parents: parents}, nil
}

func buildTypedef(yt yamlTypedef) (*tenv.TypedefInfo, error) {
	tparams, err := buildTParams(yt.TParams)
	if err != nil {
		return nil, err
	}
	scope := tparamScope(yt.TParams)

	body, err := explain.ParseType(yt.Body, scope)
	if err != nil {
		return nil, fmt.Errorf("body %q: %w", yt.Body, err)
	}

	return &tenv.TypedefInfo{
		NameVal: normalize(yt.Name),
		Pos:     ast.Pos{File: yt.Name, Line: 1},
		TParams: tparams,
		Body:    body,
	}, nil
}
