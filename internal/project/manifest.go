package project

import (
	"errors"
	"fmt"
	"go/token"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/BurntSushi/toml"
	"github.com/gosimple/slug"

	"nate/internal/codegen"
	"nate/internal/diag"
	"nate/internal/source"
)

// Manifest is a decoded nate.toml.
type Manifest struct {
	Path      string
	Root      string
	Project   ProjectConfig
	Templates []TemplateConfig
}

type config struct {
	Project   ProjectConfig    `toml:"project"`
	Templates []TemplateConfig `toml:"template"`
}

// ProjectConfig is the [project] table.
type ProjectConfig struct {
	Name     string `toml:"name"`
	CacheDir string `toml:"cache_dir"`
	Jobs     int    `toml:"jobs"`
}

// TemplateConfig is one [[template]] entry.
type TemplateConfig struct {
	Type        string   `toml:"type"`
	Path        string   `toml:"path"`
	Package     string   `toml:"package"`
	PackageName string   `toml:"package_name"`
	Output      string   `toml:"output"`
	Generated   string   `toml:"generated"`
	Strip       string   `toml:"strip"`
	Imports     []string `toml:"imports"`
	TypeParams  string   `toml:"type_params"`
	Receiver    string   `toml:"receiver"`
	Pointer     bool     `toml:"pointer"`
}

// Decl is a validated template declaration with absolute paths.
type Decl struct {
	Index int
	// Template is the absolute template path, TemplateRel the root-relative one.
	Template    string
	TemplateRel string
	PackageDir  string
	Output      string
	// Generated is an optional debug output path, empty when unset.
	Generated string
	Strip     source.StripMode
	Gen       codegen.Decl
}

// Name identifies the declaration in progress output and diagnostics.
func (d *Decl) Name() string {
	return d.Gen.Type + " (" + d.TemplateRel + ")"
}

// Load reads nate.toml from path.
func Load(path string) (*Manifest, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve manifest path: %w", err)
	}
	var cfg config
	meta, err := toml.DecodeFile(abs, &cfg)
	if err != nil {
		return nil, malformed(abs, "failed to parse TOML", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return nil, malformed(abs, "unknown keys: "+strings.Join(keys, ", "), nil)
	}
	if !meta.IsDefined("template") || len(cfg.Templates) == 0 {
		return nil, malformed(abs, "no [[template]] declarations", nil)
	}
	if cfg.Project.Jobs < 0 {
		return nil, malformed(abs, fmt.Sprintf("[project].jobs must not be negative, got %d", cfg.Project.Jobs), nil)
	}
	return &Manifest{
		Path:      abs,
		Root:      filepath.Dir(abs),
		Project:   cfg.Project,
		Templates: cfg.Templates,
	}, nil
}

// Discover finds nate.toml above startDir and loads it.
func Discover(startDir string) (*Manifest, error) {
	path, ok, err := FindNateToml(startDir)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &diag.HostCompileError{
			Code: diag.HostManifestNotFound,
			Msg:  fmt.Sprintf("no %s found in %q or any parent directory", ManifestName, startDir),
		}
	}
	return Load(path)
}

// Decls validates every [[template]] entry. All problems are reported,
// joined with errors.Join.
func (m *Manifest) Decls() ([]Decl, error) {
	out := make([]Decl, 0, len(m.Templates))
	var errs []error
	for i := range m.Templates {
		d, err := m.decl(i)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		out = append(out, d)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return out, nil
}

func (m *Manifest) decl(i int) (Decl, error) {
	tc := m.Templates[i]
	bad := func(format string, args ...any) error {
		return &diag.HostCompileError{
			Code: diag.HostBadDeclaration,
			Pos:  source.Position{Path: m.Path},
			Msg:  fmt.Sprintf("[[template]] #%d: ", i+1) + fmt.Sprintf(format, args...),
		}
	}

	typ := strings.TrimSpace(tc.Type)
	if typ == "" {
		return Decl{}, bad("missing type")
	}
	if !token.IsIdentifier(typ) {
		return Decl{}, bad("type %q is not a Go identifier", typ)
	}
	if strings.TrimSpace(tc.Path) == "" {
		return Decl{}, bad("%s: missing path", typ)
	}
	if strings.TrimSpace(tc.Package) == "" {
		return Decl{}, bad("%s: missing package", typ)
	}

	tmpl, err := m.within(tc.Path)
	if err != nil {
		return Decl{}, bad("%s: path: %v", typ, err)
	}
	pkgDir, err := m.within(tc.Package)
	if err != nil {
		return Decl{}, bad("%s: package: %v", typ, err)
	}
	pkgName := strings.TrimSpace(tc.PackageName)
	if pkgName == "" {
		pkgName = filepath.Base(pkgDir)
	}
	if !token.IsIdentifier(pkgName) {
		return Decl{}, bad("%s: package name %q is not a Go identifier; set package_name", typ, pkgName)
	}

	output := strings.TrimSpace(tc.Output)
	if output == "" {
		output = filepath.Join(tc.Package, DefaultOutputName(typ))
	}
	outPath, err := m.within(output)
	if err != nil {
		return Decl{}, bad("%s: output: %v", typ, err)
	}
	if filepath.Ext(outPath) != ".go" {
		return Decl{}, bad("%s: output %q must be a .go file", typ, output)
	}

	var generated string
	if g := strings.TrimSpace(tc.Generated); g != "" {
		generated = g
		if !filepath.IsAbs(generated) {
			generated = filepath.Join(m.Root, filepath.FromSlash(generated))
		}
	}

	strip, err := source.ParseStripMode(tc.Strip)
	if err != nil {
		return Decl{}, bad("%s: %v", typ, err)
	}

	rel, err := source.RelativePath(tmpl, m.Root)
	if err != nil {
		return Decl{}, bad("%s: path: %v", typ, err)
	}
	gen := codegen.Decl{
		Type:       typ,
		Package:    pkgName,
		Source:     rel,
		Root:       m.Root,
		Imports:    tc.Imports,
		TypeParams: strings.TrimSpace(tc.TypeParams),
		Receiver:   strings.TrimSpace(tc.Receiver),
		Pointer:    tc.Pointer,
	}
	if err := gen.Validate(); err != nil {
		return Decl{}, bad("%s: %v", typ, err)
	}
	return Decl{
		Index:       i,
		Template:    tmpl,
		TemplateRel: rel,
		PackageDir:  pkgDir,
		Output:      outPath,
		Generated:   generated,
		Strip:       strip,
		Gen:         gen,
	}, nil
}

// within resolves a root-relative path and rejects paths leaving the root.
func (m *Manifest) within(rel string) (string, error) {
	rel = strings.TrimSpace(rel)
	if filepath.IsAbs(rel) {
		return "", fmt.Errorf("%q must be relative to the project root", rel)
	}
	p := filepath.Join(m.Root, filepath.FromSlash(rel))
	if !pathWithin(m.Root, p) {
		return "", fmt.Errorf("%q escapes the project root", rel)
	}
	return p, nil
}

// DefaultOutputName derives the generated file name from the type name:
// "BottlesOfBeer" becomes "bottles-of-beer_nate.go", "HTMLPage" becomes
// "html-page_nate.go".
func DefaultOutputName(typ string) string {
	runes := []rune(typ)
	var sb strings.Builder
	for i, r := range runes {
		if i > 0 && unicode.IsUpper(r) {
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if !unicode.IsUpper(prev) || nextLower {
				sb.WriteByte(' ')
			}
		}
		sb.WriteRune(r)
	}
	return slug.Make(sb.String()) + "_nate.go"
}

func malformed(path, msg string, err error) error {
	return &diag.HostCompileError{
		Code: diag.HostManifestMalformed,
		Pos:  source.Position{Path: path},
		Msg:  msg,
		Err:  err,
	}
}
