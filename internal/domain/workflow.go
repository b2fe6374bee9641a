// Package domain implements placeholder substitution for configuration trees.
package domain

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mouse-blink/traefik-replace/internal/adapter"
	"github.com/mouse-blink/traefik-replace/internal/controller"
	m "github.com/mouse-blink/traefik-replace/internal/model"
)

// GenerateArgs contains the arguments for one generator run.
type GenerateArgs struct {
	Root       m.Path
	Recursive  bool
	Mappings   []m.Mapping
	Extensions []string
	DryRun     bool
	// Validate parses each rendered file before it is written.
	Validate bool
	// LookupEnv overrides the environment lookup; nil means os.LookupEnv.
	LookupEnv LookupEnvFunc
}

// Workflow drives file selection and rewriting for a whole tree.
type Workflow interface {
	Generate(ctx context.Context, args GenerateArgs) error
}

type workflow struct {
	adapter.SourceFSAdapter
	controller.UI
}

// NewWorkflow creates a new Workflow instance with the provided dependencies.
func NewWorkflow(fsAdapter adapter.SourceFSAdapter, ui controller.UI) Workflow {
	return &workflow{
		SourceFSAdapter: fsAdapter,
		UI:              ui,
	}
}

// Generate processes every candidate file under args.Root in walk order and
// stops at the first failure. Files generated before the failure stay on disk:
// a run is not atomic across the tree.
func (w *workflow) Generate(ctx context.Context, args GenerateArgs) error {
	root, err := w.resolveRoot(args.Root)
	if err != nil {
		return err
	}

	table, err := NewMappingTable(args.Mappings, args.LookupEnv)
	if err != nil {
		return fmt.Errorf("build mapping table: %w", err)
	}

	mode := controller.WithGenerateMode()
	if args.DryRun {
		mode = controller.WithDryRunMode()
	}

	if err := w.Start(ctx, mode); err != nil {
		return fmt.Errorf("start ui: %w", err)
	}
	defer w.Close(ctx)

	w.DisplayRunInfo(ctx, root, args.Recursive)

	selector := NewFileSelector(w.SourceFSAdapter, args.Extensions...)
	opts := []RewriterOption{WithDryRun(args.DryRun)}
	if args.Validate {
		opts = append(opts, WithValidator(adapter.NewFormatValidator()))
	}

	rewriter := NewRewriter(w.SourceFSAdapter, table, opts...)
	summary := m.RunSummary{Root: root, DryRun: args.DryRun}

	defer func() {
		// Interrupted runs still get their summary.
		w.DisplaySummary(context.WithoutCancel(ctx), summary)
	}()

	for path, err := range selector.Select(root, args.Recursive) {
		if err != nil {
			slog.Error("scan failed", "root", root, "error", err)
			return fmt.Errorf("scan %s: %w", root, err)
		}

		if err := ctx.Err(); err != nil {
			return err
		}

		result, err := rewriter.ProcessFile(path)
		if rel, relErr := w.RelPath(root, path); relErr == nil {
			result.RelSource = rel
		}

		summary.Results = append(summary.Results, result)
		w.DisplayFileResult(ctx, result)

		if err != nil {
			slog.Error("processing failed, aborting run", "file", path, "error", err)
			return err
		}
	}

	slog.Info("run completed",
		"root", root,
		"files", len(summary.Results),
		"generated", summary.Count(m.StatusGenerated),
		"mappings", table.Len(),
	)

	return nil
}

func (w *workflow) resolveRoot(root m.Path) (m.Path, error) {
	if root == "" {
		root = "."
	}

	abs, err := w.AbsPath(root)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrInvalidRoot, root, err)
	}

	info, err := w.FileInfo(abs)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidRoot, err)
	}

	if !info.IsDir() {
		return "", fmt.Errorf("%w: %s is not a directory", ErrInvalidRoot, abs)
	}

	return abs, nil
}
