package extractor

import (
	"sync"
	"unsafe"

	tree_sitter_zig "github.com/tree-sitter-grammars/tree-sitter-zig/bindings/go"
	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_csharp "github.com/tree-sitter/tree-sitter-c-sharp/bindings/go"
	tree_sitter_cpp "github.com/tree-sitter/tree-sitter-cpp/bindings/go"
	tree_sitter_go "github.com/tree-sitter/tree-sitter-go/bindings/go"
	tree_sitter_java "github.com/tree-sitter/tree-sitter-java/bindings/go"
	tree_sitter_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	tree_sitter_php "github.com/tree-sitter/tree-sitter-php/bindings/go"
	tree_sitter_python "github.com/tree-sitter/tree-sitter-python/bindings/go"
	tree_sitter_rust "github.com/tree-sitter/tree-sitter-rust/bindings/go"
	tree_sitter_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"

	"github.com/wardenhq/warden-core/types"
)

// querySet holds the four query sources of a language's capability
// bundle. Every definition query captures exactly one node named @name;
// the reference query captures identifier-like leaves as @name.
type querySet struct {
	functions  string
	classes    string
	imports    string
	references string
}

// capability bundles a compiled grammar, a parser pool, and the four
// compiled queries for one language.
type capability struct {
	language   *tree_sitter.Language
	parsers    sync.Pool
	functions  *tree_sitter.Query
	classes    *tree_sitter.Query
	imports    *tree_sitter.Query
	references *tree_sitter.Query
}

var (
	registryOnce sync.Once
	registry     map[types.Language]*capability
)

// getCapability returns the capability bundle for a language, or nil for
// languages outside the registry. Grammars and queries compile once per
// process on first use.
func getCapability(lang types.Language) *capability {
	registryOnce.Do(buildRegistry)
	return registry[lang]
}

// Supported lists the languages the registry can extract from.
func Supported() []types.Language {
	registryOnce.Do(buildRegistry)
	langs := make([]types.Language, 0, len(registry))
	for lang := range registry {
		langs = append(langs, lang)
	}
	return langs
}

func buildRegistry() {
	registry = make(map[types.Language]*capability)

	register(types.LangGo, tree_sitter_go.Language(), querySet{
		functions: `
			(function_declaration name: (identifier) @name)
			(method_declaration name: (field_identifier) @name)
		`,
		classes: `
			(type_declaration (type_spec name: (type_identifier) @name))
		`,
		imports: `
			(import_spec path: (interpreted_string_literal) @name)
		`,
		references: `
			[(identifier) (type_identifier) (field_identifier) (package_identifier)] @name
		`,
	})

	register(types.LangPython, tree_sitter_python.Language(), querySet{
		functions: `
			(function_definition name: (identifier) @name)
		`,
		classes: `
			(class_definition name: (identifier) @name)
		`,
		imports: `
			(import_statement name: (dotted_name) @name)
			(import_from_statement module_name: (dotted_name) @name)
		`,
		// pass_statement is a named leaf whose text is the keyword itself
		references: `
			[(identifier) (pass_statement)] @name
		`,
	})

	register(types.LangJavaScript, tree_sitter_javascript.Language(), querySet{
		functions: `
			(function_declaration name: (identifier) @name)
			(method_definition name: (property_identifier) @name)
		`,
		classes: `
			(class_declaration name: (identifier) @name)
		`,
		imports: `
			(import_statement source: (string) @name)
		`,
		references: `
			[(identifier) (property_identifier)] @name
		`,
	})

	register(types.LangTypeScript, tree_sitter_typescript.LanguageTypescript(), querySet{
		functions: `
			(function_declaration name: (identifier) @name)
			(method_definition name: (property_identifier) @name)
		`,
		classes: `
			(class_declaration name: (type_identifier) @name)
			(interface_declaration name: (type_identifier) @name)
			(enum_declaration name: (identifier) @name)
		`,
		imports: `
			(import_statement source: (string) @name)
		`,
		references: `
			[(identifier) (type_identifier) (property_identifier)] @name
		`,
	})

	register(types.LangJava, tree_sitter_java.Language(), querySet{
		functions: `
			(method_declaration name: (identifier) @name)
			(constructor_declaration name: (identifier) @name)
		`,
		classes: `
			(class_declaration name: (identifier) @name)
			(interface_declaration name: (identifier) @name)
			(enum_declaration name: (identifier) @name)
			(record_declaration name: (identifier) @name)
		`,
		imports: `
			(import_declaration [(scoped_identifier) (identifier)] @name)
		`,
		references: `
			[(identifier) (type_identifier)] @name
		`,
	})

	register(types.LangCpp, tree_sitter_cpp.Language(), querySet{
		functions: `
			(function_definition declarator: (function_declarator declarator: (identifier) @name))
		`,
		classes: `
			(class_specifier name: (type_identifier) @name)
			(struct_specifier name: (type_identifier) @name)
			(enum_specifier name: (type_identifier) @name)
		`,
		imports: `
			(preproc_include path: (_) @name)
		`,
		references: `
			[(identifier) (type_identifier) (field_identifier)] @name
		`,
	})

	register(types.LangCSharp, tree_sitter_csharp.Language(), querySet{
		functions: `
			(method_declaration name: (identifier) @name)
			(constructor_declaration name: (identifier) @name)
		`,
		classes: `
			(class_declaration name: (identifier) @name)
			(interface_declaration name: (identifier) @name)
			(struct_declaration name: (identifier) @name)
			(enum_declaration name: (identifier) @name)
			(record_declaration name: (identifier) @name)
		`,
		imports: `
			(using_directive (qualified_name) @name)
			(using_directive (identifier) @name)
		`,
		references: `
			(identifier) @name
		`,
	})

	register(types.LangRust, tree_sitter_rust.Language(), querySet{
		functions: `
			(function_item name: (identifier) @name)
		`,
		classes: `
			(struct_item name: (type_identifier) @name)
			(enum_item name: (type_identifier) @name)
			(trait_item name: (type_identifier) @name)
		`,
		imports: `
			(use_declaration argument: (_) @name)
		`,
		references: `
			[(identifier) (type_identifier) (field_identifier)] @name
		`,
	})

	register(types.LangPHP, tree_sitter_php.LanguagePHP(), querySet{
		functions: `
			(function_definition name: (name) @name)
			(method_declaration name: (name) @name)
		`,
		classes: `
			(class_declaration name: (name) @name)
			(interface_declaration name: (name) @name)
			(trait_declaration name: (name) @name)
		`,
		imports: `
			(namespace_use_clause [(qualified_name) (name)] @name)
		`,
		references: `
			[(name) (variable_name)] @name
		`,
	})

	register(types.LangZig, tree_sitter_zig.Language(), querySet{
		functions: `
			(function_declaration (identifier) @name)
		`,
		classes: `
			(variable_declaration (identifier) @name (struct_declaration))
			(variable_declaration (identifier) @name (union_declaration))
		`,
		imports: `
			(builtin_identifier) @name
		`,
		references: `
			(identifier) @name
		`,
	})
}

// register compiles one language's grammar and queries into the
// registry. A grammar that fails to load is left out entirely; a query
// that fails to compile empties only its category.
func register(lang types.Language, grammar unsafe.Pointer, qs querySet) {
	language := tree_sitter.NewLanguage(grammar)
	if language == nil {
		return
	}

	probe := tree_sitter.NewParser()
	if err := probe.SetLanguage(language); err != nil {
		return
	}

	c := &capability{language: language}
	c.parsers.New = func() any {
		p := tree_sitter.NewParser()
		if err := p.SetLanguage(language); err != nil {
			return nil
		}
		return p
	}
	c.parsers.Put(probe)

	c.functions = compileQuery(language, qs.functions)
	c.classes = compileQuery(language, qs.classes)
	c.imports = compileQuery(language, qs.imports)
	c.references = compileQuery(language, qs.references)

	registry[lang] = c
}

func compileQuery(language *tree_sitter.Language, src string) *tree_sitter.Query {
	query, _ := tree_sitter.NewQuery(language, src)
	// The binding can return a typed nil error, so a nil query is the
	// reliable failure signal
	return query
}
