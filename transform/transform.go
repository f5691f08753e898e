// Package transform wires the grammar front-end, the catalog/indices
// snapshot, and the ir builder into the single entry point a host
// (CLI, HTTP handler, batch job) actually calls: hand it one source
// string plus a current schema and get back a Result, never a panic
// and never a partial write.
package transform

import (
	"errors"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/dbmigrate/oratopg/catalog"
	"github.com/dbmigrate/oratopg/indices"
	"github.com/dbmigrate/oratopg/inlinetype"
	"github.com/dbmigrate/oratopg/ir"
	"github.com/dbmigrate/oratopg/parser"
	"github.com/dbmigrate/oratopg/sqlparser/oracle"
)

// Request bundles the inputs one translation needs (spec.md §4.6): the
// Oracle source text, the schema it should be resolved against, the
// entry production to parse from, the owning package's name and spec
// source (required only when Entry is package_body/function_body/
// procedure_body and the unit makes use of inline types declared in its
// package spec), and whether the caller wants the parse tree dumped
// alongside the translated SQL.
type Request struct {
	Source            string
	CurrentSchema     string
	Entry             parser.ParseEntry
	PackageName       string
	PackageSpecSource string
	ShowAST           bool
}

// TransformCode is the core entry point: parse, resolve, lower, emit.
// It never panics - every error kind in spec.md §7 is converted into a
// Result{Success: false} rather than propagated, so a host never needs
// its own recover().
func TransformCode(req Request, idx *indices.Indices) (result Result) {
	defer func() {
		if r := recover(); r != nil {
			iv := ir.InvariantViolation{Detail: recoverDetail(r)}
			logrus.WithFields(logrus.Fields{"schema": req.CurrentSchema, "entry": req.Entry}).Error(iv.Error())
			result = failure(req.Source, iv)
		}
	}()

	if err := validateRequest(req, idx); err != nil {
		return failure(req.Source, err)
	}

	root, errs := parser.Parse(oracle.FileRef("input.sql"), req.Source, req.Entry)
	if len(errs) > 0 {
		return failure(req.Source, errs[0])
	}

	buildCtx := ir.NewBuildContext(req.CurrentSchema, idx)
	b := ir.NewBuilder(buildCtx)
	emitCtx := ir.NewEmitContext()

	pgSQL, astText, err := dispatch(b, root, req, idx, emitCtx)
	if err != nil {
		var iv ir.InvariantViolation
		if errors.As(err, &iv) {
			logrus.WithFields(logrus.Fields{"schema": req.CurrentSchema, "entry": req.Entry}).Error(iv.Error())
		}
		return failure(req.Source, err)
	}
	return success(req.Source, pgSQL, astText)
}

// TransformSQL translates a standalone SELECT statement (spec.md §6's
// transform_sql).
func TransformSQL(sourceText, currentSchema string, idx *indices.Indices, showAST bool) Result {
	return TransformCode(Request{
		Source:        sourceText,
		CurrentSchema: currentSchema,
		Entry:         parser.EntrySelectStatement,
		ShowAST:       showAST,
	}, idx)
}

// TransformFunction translates a standalone FUNCTION body (spec.md §6's
// transform_function).
func TransformFunction(sourceText, currentSchema string, idx *indices.Indices, showAST bool) Result {
	return TransformCode(Request{
		Source:        sourceText,
		CurrentSchema: currentSchema,
		Entry:         parser.EntryFunctionBody,
		ShowAST:       showAST,
	}, idx)
}

// TransformProcedure translates a standalone PROCEDURE body (spec.md
// §6's transform_procedure).
func TransformProcedure(sourceText, currentSchema string, idx *indices.Indices, showAST bool) Result {
	return TransformCode(Request{
		Source:        sourceText,
		CurrentSchema: currentSchema,
		Entry:         parser.EntryProcedureBody,
		ShowAST:       showAST,
	}, idx)
}

func validateRequest(req Request, idx *indices.Indices) error {
	if strings.TrimSpace(req.Source) == "" {
		return InputError{Reason: "source text is empty"}
	}
	if strings.TrimSpace(req.CurrentSchema) == "" {
		return InputError{Reason: "current schema is empty"}
	}
	if idx == nil {
		return InputError{Reason: "no indices snapshot was supplied"}
	}
	switch req.Entry {
	case parser.EntrySelectStatement, parser.EntryFunctionBody, parser.EntryProcedureBody,
		parser.EntryPackageSpec, parser.EntryPackageBody:
	default:
		return InputError{Reason: "unrecognized parse entry " + string(req.Entry)}
	}
	return nil
}

func dispatch(b *ir.Builder, root parser.Node, req Request, idx *indices.Indices, emitCtx *ir.EmitContext) (pgSQL, astText string, err error) {
	if req.ShowAST {
		astText = parser.Dump(root)
	}

	switch req.Entry {
	case parser.EntrySelectStatement:
		stmt, err := b.BuildSelectStatement(root.(*parser.SelectStatement))
		if err != nil {
			return "", astText, err
		}
		return stmt.ToPostgres(emitCtx), astText, nil

	case parser.EntryFunctionBody:
		fb, err := b.BuildFunctionBody(root.(*parser.FunctionBody))
		if err != nil {
			return "", astText, err
		}
		if pkgCtx, ok, err := maybePackageContext(req, idx); err != nil {
			return "", astText, err
		} else if ok {
			if err := inlinetype.ElaborateFunctionBody(fb, pkgCtx, emitCtx); err != nil {
				return "", astText, err
			}
		}
		return fb.ToPostgres(emitCtx), astText, nil

	case parser.EntryProcedureBody:
		pb, err := b.BuildProcedureBody(root.(*parser.ProcedureBody))
		if err != nil {
			return "", astText, err
		}
		if pkgCtx, ok, err := maybePackageContext(req, idx); err != nil {
			return "", astText, err
		} else if ok {
			if err := inlinetype.ElaborateProcedureBody(pb, pkgCtx, emitCtx); err != nil {
				return "", astText, err
			}
		}
		return pb.ToPostgres(emitCtx), astText, nil

	case parser.EntryPackageBody:
		pkg, err := b.BuildPackageBody(root.(*parser.PackageBody))
		if err != nil {
			return "", astText, err
		}
		pkgCtx, ok, err := maybePackageContext(req, idx)
		if err != nil {
			return "", astText, err
		}
		if ok {
			if err := inlinetype.ElaboratePackageBody(pkg, pkgCtx, emitCtx); err != nil {
				return "", astText, err
			}
		}
		return pkg.ToPostgres(emitCtx), astText, nil

	case parser.EntryPackageSpec:
		// A bare package spec carries no executable body to translate;
		// its only purpose in this pipeline is as the source of inline
		// type definitions consumed via PackageSpecSource on a later
		// request.
		return "", astText, nil

	default:
		return "", astText, InputError{Reason: "unrecognized parse entry " + string(req.Entry)}
	}
}

// maybePackageContext extracts the inline-type definitions of the
// named package spec when the request identifies one, so package
// bodies that declare RECORD/TABLE OF/VARRAY/INDEX BY types (spec.md
// §4.5) get elaborated. A request with no PackageName/PackageSpecSource
// set is a standalone function/procedure with no inline types in
// play, not an error.
func maybePackageContext(req Request, idx *indices.Indices) (*catalog.PackageContext, bool, error) {
	if req.PackageName == "" || req.PackageSpecSource == "" {
		return nil, false, nil
	}
	pkgCtx, err := inlinetype.ExtractPackageContext(req.CurrentSchema, req.PackageName, req.PackageSpecSource, idx)
	if err != nil {
		return nil, false, err
	}
	return pkgCtx, true, nil
}

func recoverDetail(r interface{}) string {
	if err, ok := r.(error); ok {
		return err.Error()
	}
	return "panic during translation"
}
