package main

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/talentcraft/proposalgen/internal/attach"
	"github.com/talentcraft/proposalgen/internal/config"
	"github.com/talentcraft/proposalgen/internal/generate"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Research a company and write its proposal document",
	Long:  "Run research, copy generation and rendering once, writing the .docx to the output directory. Use --copy-only to print the copy instead.",
	RunE:  runGenerate,
}

var (
	generateCompany     string
	generateRoles       string
	generateURL         string
	generateContext     string
	generateContextFile string
	generateOutDir      string
	generateCopyOnly    bool
)

func init() {
	generateCmd.Flags().StringVarP(&generateCompany, "company", "c", "", "Company name (required)")
	generateCmd.Flags().StringVarP(&generateRoles, "roles", "r", "", "Job roles being hired (required)")
	generateCmd.Flags().StringVarP(&generateURL, "url", "u", "", "Company website")
	generateCmd.Flags().StringVar(&generateContext, "context", "", "Additional company context")
	generateCmd.Flags().StringVar(&generateContextFile, "context-file", "", "Read additional context from a .txt, .md, .html, .csv, .pdf or .docx file")
	generateCmd.Flags().StringVarP(&generateOutDir, "out", "o", "", "Output directory (defaults to OUTPUT_DIR)")
	generateCmd.Flags().BoolVar(&generateCopyOnly, "copy-only", false, "Print the generated copy and skip the document")
	_ = generateCmd.MarkFlagRequired("company")
	_ = generateCmd.MarkFlagRequired("roles")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	log := newLogger()
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return err
	}

	extra := generateContext
	if generateContextFile != "" {
		text, err := readContextFile(generateContextFile)
		if err != nil {
			return err
		}
		extra = joinNonEmpty(extra, text)
	}

	ctx := cmd.Context()
	a, err := newApp(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer a.Close()

	res, err := a.service.Generate(ctx, generate.Input{
		CompanyName:    generateCompany,
		JobRoles:       generateRoles,
		CompanyURL:     generateURL,
		CompanyContext: extra,
	})
	if err != nil {
		return err
	}
	if generateCopyOnly {
		fmt.Fprintln(cmd.OutOrStdout(), res.Content)
		return nil
	}

	path, err := renderProposal(bytes.NewReader([]byte(res.Content)), renderOptions{
		Company:   generateCompany,
		Roles:     generateRoles,
		OutDir:    firstNonEmpty(generateOutDir, cfg.OutputDir),
		ThemeFile: cfg.ThemeFile,
		Now:       time.Now(),
	})
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), path)
	return nil
}

func readContextFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open context file: %w", err)
	}
	defer f.Close()
	return attach.Extract(f, path)
}

func joinNonEmpty(a, b string) string {
	switch {
	case a == "":
		return b
	case b == "":
		return a
	}
	return a + "\n\n" + b
}
