// Package contract loads the YAML description the contract types are
// generated from. It must not import the generated package: the generator
// has to build even when the bindings on disk are broken.
package contract

import (
	"errors"
	"fmt"
	"go/token"
	"io"
	"os"
	"reflect"
	"regexp"
	"slices"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"

	"github.com/se-clavier/api/jsonschema"
)

// Names the generated code relies on in the target package.
const (
	EnvelopeType   = "Envelope"
	CollectionType = "APICollection"
	CallTag        = "Call"
	ReturnTag      = "Return"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid contract description")

// Description is the parsed source of truth.
type Description struct {
	Package    string     `yaml:"package"`
	Types      []Type     `yaml:"types"`
	Collection Collection `yaml:"collection"`
}

// Type is a struct contract type.
type Type struct {
	Name   string  `yaml:"name"`
	Doc    string  `yaml:"doc"`
	Fields []Field `yaml:"fields"`
}

// Field is one member of a Type. Type is a scalar name (see ScalarKind) or
// the name of another Type.
type Field struct {
	Name     string `yaml:"name"`
	Type     string `yaml:"type"`
	Doc      string `yaml:"doc"`
	Optional bool   `yaml:"optional"`
	List     bool   `yaml:"list"`
}

// Collection is the tagged union of every named API.
type Collection struct {
	Name string `yaml:"name"`
	Doc  string `yaml:"doc"`
	APIs []API  `yaml:"apis"`
}

// API is one variant of the Collection: a request/response pair carried in
// its own envelope.
type API struct {
	Name     string `yaml:"name"`
	Doc      string `yaml:"doc"`
	Request  string `yaml:"request"`
	Response string `yaml:"response"`
}

// EnvelopeName returns the definition name of the API's envelope type.
func (a API) EnvelopeName() string {
	return jsonschema.GenericName(EnvelopeType, a.Request, a.Response)
}

var scalars = map[string]reflect.Kind{
	"string": reflect.String,
	"bool":   reflect.Bool,
	"i32":    reflect.Int32,
	"i64":    reflect.Int64,
	"u32":    reflect.Uint32,
	"u64":    reflect.Uint64,
	"f32":    reflect.Float32,
	"f64":    reflect.Float64,
}

// ScalarKind returns the Go kind of a scalar type name.
func ScalarKind(name string) (reflect.Kind, bool) {
	k, ok := scalars[name]
	return k, ok
}

// reserved are exported identifiers of the target package that generated
// names must not shadow.
var reserved = map[string]bool{
	"Call": true, "Return": true, "TagCall": true, "TagReturn": true,
	"Envelope": true, "EnvelopeFunc": true, "State": true,
	"StateEmpty": true, "StateCall": true, "StateReturn": true, "StateError": true,
	"Handler": true, "Handlers": true, "Lift": true,
	"Router": true, "RouterOption": true, "NewRouter": true, "WithMiddleware": true,
	"Dispatch": true, "Middleware": true, "Recovery": true, "Logger": true,
	"CallID": true, "CallIDConfig": true, "GetCallID": true, "WithCallID": true, "Timeout": true,
	"RateLimit": true, "RateLimitConfig": true, "PanicError": true,
	"Encoder": true, "Decoder": true, "EncoderFor": true, "DecoderFor": true,
	"ContractType": true, "ContractTypeNames": true, "Schema": true,
	"WithValue": true, "Value": true,
	// Methods of the generated collection type.
	"Tag": true, "UnionVariants": true,
	"MarshalJSON": true, "UnmarshalJSON": true, "MarshalYAML": true, "UnmarshalYAML": true,
}

// sentinelPrefix is reserved for the package's error values.
const sentinelPrefix = "Err"

var (
	exportedIdent = regexp.MustCompile(`^[A-Z][A-Za-z0-9]*$`)
	fieldIdent    = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)
	packageIdent  = regexp.MustCompile(`^[a-z][a-z0-9]*$`)
)

// Load reads and validates the description at path.
func Load(path string) (*Description, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open contract: %w", err)
	}
	defer f.Close()

	d, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}

// Parse decodes and validates a description. Unknown keys are rejected.
func Parse(r io.Reader) (*Description, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var d Description
	if err := dec.Decode(&d); err != nil {
		return nil, fmt.Errorf("decode contract: %w", err)
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &d, nil
}

// Lookup returns the struct type called name.
func (d *Description) Lookup(name string) (*Type, bool) {
	for i := range d.Types {
		if d.Types[i].Name == name {
			return &d.Types[i], true
		}
	}
	return nil, false
}

// Validate reports every problem in d at once.
func (d *Description) Validate() error {
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	if !packageIdent.MatchString(d.Package) {
		fail("package %q is not a valid package name", d.Package)
	}

	// Every generated top-level identifier, to catch collisions.
	idents := make(map[string]string)
	claim := func(name, owner string) {
		if reserved[name] || strings.HasPrefix(name, sentinelPrefix) {
			fail("%s %q collides with a runtime identifier", owner, name)
			return
		}
		if prev, ok := idents[name]; ok {
			fail("%s %q collides with %s", owner, name, prev)
			return
		}
		idents[name] = owner
	}

	for _, t := range d.Types {
		if !exportedIdent.MatchString(t.Name) {
			fail("type %q must be an exported Go identifier", t.Name)
			continue
		}
		claim(t.Name, "type")
	}

	for _, t := range d.Types {
		seen := make(map[string]bool)
		for _, f := range t.Fields {
			switch {
			case !fieldIdent.MatchString(f.Name):
				fail("%s.%s: field names must be lower snake_case", t.Name, f.Name)
			case seen[f.Name] || seen[goFieldKey(f.Name)]:
				fail("%s.%s: duplicate field", t.Name, f.Name)
			}
			seen[f.Name] = true
			seen[goFieldKey(f.Name)] = true

			if _, ok := ScalarKind(f.Type); !ok {
				if _, ok := d.Lookup(f.Type); !ok {
					fail("%s.%s: unknown type %q", t.Name, f.Name, f.Type)
				}
			}
			if strings.ContainsAny(f.Doc, "`\"\n") {
				fail("%s.%s: field doc must be a single line without quotes", t.Name, f.Name)
			}
		}
	}

	for _, cycle := range d.embedCycles() {
		fail("type %s contains itself by value (%s); make a field optional or a list", cycle[0], strings.Join(cycle, " -> "))
	}

	c := d.Collection
	if c.Name != CollectionType {
		fail("collection %q must be named %s, the type the router dispatches", c.Name, CollectionType)
	} else {
		claim(c.Name, "collection")
	}
	if len(c.APIs) == 0 {
		fail("collection %q declares no apis", c.Name)
	}
	for _, a := range c.APIs {
		if !exportedIdent.MatchString(a.Name) {
			fail("api %q must be an exported Go identifier", a.Name)
			continue
		}
		claim(a.Name, "api")
		if field := lowerFirst(a.Name); token.IsKeyword(field) {
			fail("api %q: its collection field %q is a Go keyword", a.Name, field)
		}
		claim(a.Name+"Call", "api constructor")
		claim("Tag"+a.Name, "api tag")
		for _, ref := range []string{a.Request, a.Response} {
			if _, ok := d.Lookup(ref); !ok {
				fail("api %s: %q is not a declared type", a.Name, ref)
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
	}
	return nil
}

// goFieldKey folds a snake_case name so that fields mapping to the same Go
// identifier are detected as duplicates.
func goFieldKey(name string) string {
	return "#" + strings.ReplaceAll(name, "_", "")
}

// embedCycles returns every cycle of types that hold each other by value.
// Optional and list fields are indirect in Go and break a cycle.
func (d *Description) embedCycles() [][]string {
	const (
		unvisited = iota
		visiting
		done
	)
	state := make(map[string]int, len(d.Types))
	var (
		path   []string
		cycles [][]string
	)

	var visit func(name string)
	visit = func(name string) {
		t, ok := d.Lookup(name)
		if !ok {
			return
		}
		state[name] = visiting
		path = append(path, name)
		for _, f := range t.Fields {
			if f.Optional || f.List {
				continue
			}
			switch state[f.Type] {
			case visiting:
				start := slices.Index(path, f.Type)
				cycles = append(cycles, append(slices.Clone(path[start:]), f.Type))
			case unvisited:
				visit(f.Type)
			}
		}
		path = path[:len(path)-1]
		state[name] = done
	}

	for _, t := range d.Types {
		if state[t.Name] == unvisited {
			visit(t.Name)
		}
	}
	return cycles
}

func lowerFirst(s string) string {
	r := []rune(s)
	if len(r) == 0 {
		return s
	}
	r[0] = unicode.ToLower(r[0])
	return string(r)
}
