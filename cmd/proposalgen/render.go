package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/talentcraft/proposalgen/internal/config"
	"github.com/talentcraft/proposalgen/internal/content"
	"github.com/talentcraft/proposalgen/internal/proposal"
)

var renderCmd = &cobra.Command{
	Use:   "render [content-file]",
	Short: "Render proposal copy into a Word document",
	Long:  "Parse existing proposal copy from a file (or stdin when no file is given) and write the styled .docx without any network access.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runRender,
}

var (
	renderCompany string
	renderRoles   string
	renderOutDir  string
	renderTheme   string
	renderPreview bool
)

func init() {
	renderCmd.Flags().StringVarP(&renderCompany, "company", "c", "", "Company name (defaults to the name found in the copy)")
	renderCmd.Flags().StringVarP(&renderRoles, "roles", "r", "", "Job roles shown in the subtitle (defaults to DEFAULT_JOB_ROLES)")
	renderCmd.Flags().StringVarP(&renderOutDir, "out", "o", "", "Output directory (defaults to OUTPUT_DIR)")
	renderCmd.Flags().StringVar(&renderTheme, "theme", "", "YAML theme override file (defaults to THEME_FILE)")
	renderCmd.Flags().BoolVar(&renderPreview, "preview", false, "Print the assembled layout as plain text instead of writing a file")
	rootCmd.AddCommand(renderCmd)
}

type renderOptions struct {
	Company   string
	Roles     string
	OutDir    string
	ThemeFile string
	Preview   bool
	Now       time.Time
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	opts := renderOptions{
		Company:   renderCompany,
		Roles:     firstNonEmpty(renderRoles, cfg.DefaultJobRoles),
		OutDir:    firstNonEmpty(renderOutDir, cfg.OutputDir),
		ThemeFile: firstNonEmpty(renderTheme, cfg.ThemeFile),
		Preview:   renderPreview,
		Now:       time.Now(),
	}

	var in io.Reader = cmd.InOrStdin()
	if len(args) == 1 {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("open content: %w", err)
		}
		defer f.Close()
		in = f
	}

	path, err := renderProposal(in, opts)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), path)
	return nil
}

// renderProposal parses copy from r and saves the assembled document,
// returning its path. In preview mode it returns the document text instead.
func renderProposal(r io.Reader, opts renderOptions) (string, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read content: %w", err)
	}
	theme, err := proposal.LoadTheme(opts.ThemeFile)
	if err != nil {
		return "", err
	}

	doc := proposal.Assemble(content.Parse(string(raw)), opts.Roles, opts.Company)
	if opts.Preview {
		return doc.Text(), nil
	}
	return proposal.NewRenderer(theme).Save(doc, opts.OutDir, opts.Now)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
