package parser

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"go/types"
	"io/fs"
	"sort"
	"strconv"
	"strings"

	"github.com/toyz/accessorgen/internal/models"
)

// GeneratedFilePrefix is the file name prefix of generated accessor files
const GeneratedFilePrefix = "zz_generated."

// Parser extracts struct metadata from Go source
type Parser struct {
	fileSet *token.FileSet
	locals  map[string]ast.Expr // type declarations of the package being collected
}

// NewParser creates a new source parser
func NewParser() *Parser {
	return &Parser{
		fileSet: token.NewFileSet(),
	}
}

// ParseSource parses source code from a string for testing purposes
func (p *Parser) ParseSource(filename, source string) (*models.PackageMetadata, error) {
	file, err := parser.ParseFile(p.fileSet, filename, source, parser.ParseComments)
	if err != nil {
		return nil, &models.GeneratorError{
			Type:    models.ErrorTypeSyntax,
			File:    filename,
			Message: "failed to parse source",
			Cause:   err,
		}
	}

	metadata := &models.PackageMetadata{
		PackageName: file.Name.Name,
		PackagePath: "./",
	}
	p.collect(metadata, map[string]*ast.File{filename: file})
	return metadata, nil
}

// ParseDirectory parses the non-test Go files of one directory. Generated
// files are ignored, so methods emitted by a previous run never conflict
// with the next one.
func (p *Parser) ParseDirectory(path string) (*models.PackageMetadata, error) {
	pkgs, err := parser.ParseDir(p.fileSet, path, IsSourceFile, parser.ParseComments)
	if err != nil {
		return nil, &models.GeneratorError{
			Type:    models.ErrorTypeSyntax,
			File:    path,
			Message: "failed to parse directory",
			Cause:   err,
		}
	}

	if len(pkgs) == 0 {
		return nil, &models.GeneratorError{
			Type:    models.ErrorTypeValidation,
			File:    path,
			Message: "no Go packages found in directory",
		}
	}
	if len(pkgs) > 1 {
		names := make([]string, 0, len(pkgs))
		for name := range pkgs {
			names = append(names, name)
		}
		sort.Strings(names)
		return nil, &models.GeneratorError{
			Type:    models.ErrorTypeValidation,
			File:    path,
			Message: fmt.Sprintf("multiple packages found in directory: %s", strings.Join(names, ", ")),
		}
	}

	var metadata *models.PackageMetadata
	for name, pkg := range pkgs {
		metadata = &models.PackageMetadata{
			PackageName: name,
			PackagePath: path,
		}
		files := make(map[string]*ast.File, len(pkg.Files))
		for fileName, file := range pkg.Files {
			if ast.IsGenerated(file) {
				continue
			}
			files[fileName] = file
		}
		p.collect(metadata, files)
	}
	return metadata, nil
}

// IsSourceFile reports whether a directory entry is a hand-written, non-test Go file
func IsSourceFile(info fs.FileInfo) bool {
	name := info.Name()
	return strings.HasSuffix(name, ".go") &&
		!strings.HasSuffix(name, "_test.go") &&
		!strings.HasPrefix(name, GeneratedFilePrefix)
}

// collect extracts classes and their methods from files, in file name order
func (p *Parser) collect(metadata *models.PackageMetadata, files map[string]*ast.File) {
	fileNames := make([]string, 0, len(files))
	for name := range files {
		fileNames = append(fileNames, name)
	}
	sort.Strings(fileNames)

	p.locals = localTypes(files)
	defer func() { p.locals = nil }()

	methods := make(map[string][]string)
	for _, fileName := range fileNames {
		file := files[fileName]
		metadata.Classes = append(metadata.Classes, p.ExtractClasses(file, fileName)...)
		for typeName, names := range p.ExtractMethods(file) {
			methods[typeName] = append(methods[typeName], names...)
		}
	}

	for i := range metadata.Classes {
		metadata.Classes[i].Methods = methods[metadata.Classes[i].TypeName]
	}
	metadata.SetImportPath(metadata.ImportPath)
}

// ExtractClasses returns every non-generic struct type declared in file
func (p *Parser) ExtractClasses(file *ast.File, fileName string) []models.ClassMetadata {
	var classes []models.ClassMetadata
	imports := extractImports(file)

	for _, decl := range file.Decls {
		genDecl, ok := decl.(*ast.GenDecl)
		if !ok || genDecl.Tok != token.TYPE {
			continue
		}
		for _, spec := range genDecl.Specs {
			typeSpec, ok := spec.(*ast.TypeSpec)
			if !ok || typeSpec.TypeParams != nil || typeSpec.Assign.IsValid() {
				continue
			}
			structType, ok := typeSpec.Type.(*ast.StructType)
			if !ok {
				continue
			}

			classes = append(classes, models.ClassMetadata{
				TypeName:    typeSpec.Name.Name,
				PackageName: file.Name.Name,
				FileName:    fileName,
				Line:        p.fileSet.Position(typeSpec.Pos()).Line,
				Properties:  p.extractProperties(structType, fileName),
				Imports:     imports,
			})
		}
	}

	return classes
}

// extractImports returns the named and default imports of file. Blank and
// dot imports are dropped since generated code cannot refer to them.
func extractImports(file *ast.File) []models.Import {
	var imports []models.Import
	for _, spec := range file.Imports {
		path, err := strconv.Unquote(spec.Path.Value)
		if err != nil {
			continue
		}
		imp := models.Import{Path: path}
		if spec.Name != nil {
			if spec.Name.Name == "_" || spec.Name.Name == "." {
				continue
			}
			imp.Name = spec.Name.Name
		}
		imports = append(imports, imp)
	}
	return imports
}

func (p *Parser) extractProperties(structType *ast.StructType, fileName string) []models.PropertyMetadata {
	var properties []models.PropertyMetadata
	if structType.Fields == nil {
		return properties
	}

	for _, field := range structType.Fields.List {
		// Embedded fields have no name of their own
		if len(field.Names) == 0 {
			continue
		}

		goType := p.getTypeString(field.Type)
		doc := commentText(field.Doc, field.Comment)
		for _, name := range field.Names {
			properties = append(properties, models.PropertyMetadata{
				FieldName: name.Name,
				GoType:    goType,
				Nilable:   p.nilable(field.Type, map[string]bool{}),
				Doc:       doc,
				FileName:  fileName,
				Line:      p.fileSet.Position(name.Pos()).Line,
			})
		}
	}

	return properties
}

// localTypes maps every type declared in files to its type expression
func localTypes(files map[string]*ast.File) map[string]ast.Expr {
	locals := make(map[string]ast.Expr)
	for _, file := range files {
		for _, decl := range file.Decls {
			genDecl, ok := decl.(*ast.GenDecl)
			if !ok || genDecl.Tok != token.TYPE {
				continue
			}
			for _, spec := range genDecl.Specs {
				if typeSpec, ok := spec.(*ast.TypeSpec); ok {
					locals[typeSpec.Name.Name] = typeSpec.Type
				}
			}
		}
	}
	return locals
}

// nilable reports whether nil is a value of the type expr. Types declared
// in the package are followed to their definition; types of other packages
// cannot be inspected and count as not nilable.
func (p *Parser) nilable(expr ast.Expr, seen map[string]bool) bool {
	switch t := expr.(type) {
	case *ast.StarExpr, *ast.MapType, *ast.ChanType, *ast.FuncType, *ast.InterfaceType:
		return true
	case *ast.ArrayType:
		return t.Len == nil
	case *ast.ParenExpr:
		return p.nilable(t.X, seen)
	case *ast.IndexExpr:
		return p.nilable(t.X, seen)
	case *ast.IndexListExpr:
		return p.nilable(t.X, seen)
	case *ast.Ident:
		if def, ok := p.locals[t.Name]; ok {
			if seen[t.Name] {
				return false
			}
			seen[t.Name] = true
			return p.nilable(def, seen)
		}
		return t.Name == "any" || t.Name == "error"
	}
	return false
}

// ExtractMethods returns the method names declared in file, by receiver type name
func (p *Parser) ExtractMethods(file *ast.File) map[string][]string {
	methods := make(map[string][]string)

	for _, decl := range file.Decls {
		funcDecl, ok := decl.(*ast.FuncDecl)
		if !ok || funcDecl.Recv == nil || len(funcDecl.Recv.List) == 0 {
			continue
		}
		typeName := receiverTypeName(funcDecl.Recv.List[0].Type)
		if typeName == "" {
			continue
		}
		methods[typeName] = append(methods[typeName], funcDecl.Name.Name)
	}

	return methods
}

func receiverTypeName(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.Ident:
		return t.Name
	case *ast.StarExpr:
		return receiverTypeName(t.X)
	case *ast.IndexExpr:
		return receiverTypeName(t.X)
	case *ast.IndexListExpr:
		return receiverTypeName(t.X)
	case *ast.ParenExpr:
		return receiverTypeName(t.X)
	}
	return ""
}

// commentText joins the raw text of the given comment groups, markers included
func commentText(groups ...*ast.CommentGroup) string {
	var lines []string
	for _, group := range groups {
		if group == nil {
			continue
		}
		for _, c := range group.List {
			lines = append(lines, c.Text)
		}
	}
	return strings.Join(lines, "\n")
}

// getTypeString converts an AST type expression to a string representation
func (p *Parser) getTypeString(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.Ident:
		return t.Name
	case *ast.StarExpr:
		return "*" + p.getTypeString(t.X)
	case *ast.SelectorExpr:
		if ident, ok := t.X.(*ast.Ident); ok {
			return ident.Name + "." + t.Sel.Name
		}
		return t.Sel.Name
	case *ast.ArrayType:
		if t.Len != nil {
			return "[" + types.ExprString(t.Len) + "]" + p.getTypeString(t.Elt)
		}
		return "[]" + p.getTypeString(t.Elt)
	case *ast.MapType:
		return "map[" + p.getTypeString(t.Key) + "]" + p.getTypeString(t.Value)
	case *ast.InterfaceType:
		if t.Methods == nil || len(t.Methods.List) == 0 {
			return "interface{}"
		}
		return types.ExprString(t)
	default:
		return types.ExprString(expr)
	}
}
