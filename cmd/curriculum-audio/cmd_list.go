package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/book-expert/curriculum-audio/internal/curriculum"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List extracted phrases without generating audio",
		RunE:  runList,
	}
}

func runList(_ *cobra.Command, _ []string) error {
	application, err := setup()
	if err != nil {
		return err
	}
	defer application.close()

	scanner := curriculum.NewScanner(application.cfg.TTS.PlaceholderName)

	phrases, err := scanner.ScanFile(application.cfg.Paths.CurriculumFile)
	if err != nil {
		return err
	}

	for _, phrase := range phrases {
		fmt.Println("  " + curriculum.Describe(phrase))
	}

	for _, name := range scanner.NamePhrases() {
		fmt.Println("  " + curriculum.Describe(name))
	}

	fmt.Printf("\n%d phrases, %d names\n", len(phrases), len(scanner.NamePhrases()))

	return nil
}
