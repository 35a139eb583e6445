package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dgallion1/docforma/internal/assemble"
	"github.com/dgallion1/docforma/internal/docspec"
	"github.com/dgallion1/docforma/internal/partition"
	"github.com/dgallion1/docforma/internal/quality"
	"github.com/dgallion1/docforma/internal/render"
)

type buildOptions struct {
	guide   string
	content string
	out     string

	extras  assemble.Extras
	student string
	group   string
	teacher string
}

func newBuildCmd(opts *rootOptions) *cobra.Command {
	b := &buildOptions{}
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Lay out finished content as a formatted .docx",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(cmd, opts, b)
		},
	}
	f := cmd.Flags()
	f.StringVar(&b.guide, "guide", "", "methodic guide to take formatting from (defaults when empty)")
	f.StringVar(&b.content, "content", "", "file with the body text")
	f.StringVarP(&b.out, "out", "o", "work.docx", "output .docx path")
	f.StringVar(&b.extras.WorkType, "work-type", "coursework", "coursework, essay or thesis")
	f.StringVar(&b.extras.Subject, "subject", "", "discipline name")
	f.StringVar(&b.extras.Topic, "topic", "", "topic of the work")
	f.StringVar(&b.student, "student", "", "student full name")
	f.StringVar(&b.group, "group", "", "student group")
	f.StringVar(&b.teacher, "teacher", "", "teacher full name")
	f.StringVar(&b.extras.City, "city", "", "city on the title page")
	f.IntVar(&b.extras.Year, "year", 0, "year on the title page (0 omits it)")
	_ = cmd.MarkFlagRequired("content")
	return cmd
}

func runBuild(cmd *cobra.Command, opts *rootOptions, b *buildOptions) error {
	log := opts.logger(cmd.ErrOrStderr())
	profile, err := opts.loadProfile()
	if err != nil {
		return err
	}

	spec := profile.Defaults.Spec()
	if b.guide != "" {
		text, err := readText(b.guide, log)
		if err != nil {
			return fmt.Errorf("read guide: %w", err)
		}
		spec = docspec.NewExtractor(profile.Defaults, log).Extract(text)
	}

	content, err := readText(b.content, log)
	if err != nil {
		return fmt.Errorf("read content: %w", err)
	}

	n := spec.Structure.ChapterCount + 2
	sections, strategy := partition.Partitioner{Keywords: profile.PartitionKeywords}.Split(content, n)

	extras := b.extras
	if b.student != "" || b.group != "" {
		extras.Student = &assemble.Person{FullName: b.student, Group: b.group}
	}
	if b.teacher != "" {
		extras.Teacher = &assemble.Person{FullName: b.teacher}
	}
	doc := assemble.New(assemble.Options{Labels: profile.Labels}, log).Assemble(spec, sections, extras)

	f, err := os.Create(b.out)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	if err := render.DOCX(f, doc); err != nil {
		f.Close()
		return fmt.Errorf("render docx: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close output: %w", err)
	}

	q := quality.Analyze(content)
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s: %d sections (%s split), %d words, uniqueness %.1f%%\n",
		b.out, len(sections), strategy, q.WordCount, q.Uniqueness)
	return nil
}
