package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/turtacn/HazWaste-Intelligence/internal/application/hazclass"
	"github.com/turtacn/HazWaste-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/HazWaste-Intelligence/internal/intelligence/classifier"
	"github.com/turtacn/HazWaste-Intelligence/internal/intelligence/extraction"
	"github.com/turtacn/HazWaste-Intelligence/internal/intelligence/orchestrator"
	"github.com/turtacn/HazWaste-Intelligence/internal/intelligence/registry"
)

type classifyOptions struct {
	stateHint string
	timeout   time.Duration
}

func newClassifyCommand(root *RootOptions) *cobra.Command {
	opts := &classifyOptions{}

	cmd := &cobra.Command{
		Use:   "classify <file>",
		Short: "Classify one safety document from a file, or stdin with \"-\"",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClassify(cmd, root, opts, args[0])
		},
	}

	cmd.Flags().StringVar(&opts.stateHint, "state", "", "physical state hint (liquid, solid, gas, aqueous, sludge)")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 60*time.Second, "overall classification timeout")

	return cmd
}

func runClassify(cmd *cobra.Command, root *RootOptions, opts *classifyOptions, path string) error {
	text, err := readDocument(cmd.InOrStdin(), path)
	if err != nil {
		return err
	}

	log, err := logging.NewLogger(logging.Config{
		Level:       root.LogLevel,
		Format:      "console",
		OutputPaths: []string{"stderr"},
	})
	if err != nil {
		return fmt.Errorf("failed to initialise logger: %w", err)
	}

	svc := buildOfflineService(log)

	ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
	defer cancel()

	req := hazclass.Request{Text: text}
	if opts.stateHint != "" {
		req.Hints = &extraction.Hints{PhysicalState: opts.stateHint}
	}

	doc, err := svc.Classify(ctx, req)
	if err != nil {
		return err
	}

	return render(cmd.OutOrStdout(), root.Output, doc)
}

// buildOfflineService assembles the deterministic-only pipeline: the CLI
// never talks to a completion provider.
func buildOfflineService(log logging.Logger) *hazclass.Service {
	orch := orchestrator.New(
		extraction.NewDeterministicStrategy(log),
		extraction.NewEmergencyStrategy(),
		orchestrator.DefaultPolicy(),
		log,
	)
	cls := classifier.NewClassifier(registry.Build(log), log)
	return hazclass.NewService(orch, cls, log)
}

func readDocument(stdin io.Reader, path string) (string, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read document: %w", err)
	}
	return string(data), nil
}

func render(w io.Writer, format string, doc *hazclass.Document) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	case "summary":
		return renderSummary(w, doc)
	default:
		return fmt.Errorf("unknown output format %q (want json or summary)", format)
	}
}

func renderSummary(w io.Writer, doc *hazclass.Document) error {
	var b strings.Builder

	if doc.ProductName != "" {
		fmt.Fprintf(&b, "Product:        %s\n", doc.ProductName)
	}
	fmt.Fprintf(&b, "Physical state: %s\n", doc.PhysicalState)
	if doc.PH != nil {
		fmt.Fprintf(&b, "pH:             %.1f\n", *doc.PH)
	}
	if doc.FlashPointCelsius != nil {
		fmt.Fprintf(&b, "Flash point:    %.1f C\n", *doc.FlashPointCelsius)
	}

	if len(doc.WasteCodes) == 0 {
		b.WriteString("Waste codes:    none\n")
	} else {
		fmt.Fprintf(&b, "Waste codes:    %s\n", strings.Join(doc.WasteCodes, ", "))
	}
	fmt.Fprintf(&b, "Confidence:     %.2f\n", doc.Confidence)
	if doc.Emergency {
		b.WriteString("NOTE: extraction fell back to emergency defaults; review manually\n")
	}

	if len(doc.Reasoning) > 0 {
		b.WriteString("\nReasoning:\n")
		for _, r := range doc.Reasoning {
			fmt.Fprintf(&b, "  - %s\n", r)
		}
	}
	if len(doc.UnknownComponents) > 0 {
		b.WriteString("\nUnknown components:\n")
		for _, u := range doc.UnknownComponents {
			fmt.Fprintf(&b, "  - %s (%s)\n", u.Name, u.Reason)
		}
	}
	for _, warn := range doc.Warnings {
		fmt.Fprintf(&b, "\nWarning: %s\n", warn)
	}

	_, err := io.WriteString(w, b.String())
	return err
}
