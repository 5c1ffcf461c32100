package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/hupe1980/animalcache"
	"github.com/hupe1980/animalcache/model"
)

func QueryCommand() *cobra.Command {
	var (
		flagID            string
		flagBreeds        []string
		flagBreedContains string
		flagNames         []string
		flagNameContains  string
		flagLimit         int
	)

	command := &cobra.Command{
		Use:   "query",
		Short: "Look up animals by id, breed or name",
		Long: `Build the cache and run one lookup. --id performs an identifier lookup and
reports the number of comparisons; the other flags are combined into a filter.`,
		Example: `  animalcache query --id A671017
  animalcache query --breed "labrador retriever mix"
  animalcache query --breed-contains lab --name-contains max --limit 20`,
		Args: cobra.NoArgs,
	}

	command.Flags().StringVar(&flagID, "id", "", "Animal id")
	command.Flags().StringSliceVar(&flagBreeds, "breed", nil, "Exact breed (repeatable)")
	command.Flags().StringVar(&flagBreedContains, "breed-contains", "", "Breed substring")
	command.Flags().StringSliceVar(&flagNames, "name", nil, "Exact name (repeatable)")
	command.Flags().StringVar(&flagNameContains, "name-contains", "", "Name substring")
	command.Flags().IntVar(&flagLimit, "limit", 50, "Maximum records to print (0 for all)")

	command.RunE = func(cmd *cobra.Command, args []string) error {
		s, err := newSession(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		if _, err := s.build(cmd.Context()); err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		if flagID != "" {
			rec, comparisons, found, err := s.cache.LookupByID(flagID)
			if err != nil {
				return err
			}
			if !found {
				return fmt.Errorf("animal %q not found after %d comparisons", flagID, comparisons)
			}
			if flagJSON {
				return printJSON(out, rec)
			}
			fmt.Fprintf(out, "found after %d comparisons\n", comparisons)
			return printRecords(out, []model.Record{rec}, 0)
		}

		recs, err := s.cache.Query(animalcache.Filter{
			Categories:        flagBreeds,
			CategorySubstring: flagBreedContains,
			Names:             flagNames,
			NameSubstring:     flagNameContains,
		})
		if err != nil {
			return err
		}
		return printRecords(out, recs, flagLimit)
	}

	return command
}

func printRecords(w io.Writer, recs []model.Record, limit int) error {
	shown := recs
	if limit > 0 && len(shown) > limit {
		shown = shown[:limit]
	}

	if flagJSON {
		for _, r := range shown {
			if err := printJSON(w, r); err != nil {
				return err
			}
		}
		return nil
	}

	for _, r := range shown {
		fmt.Fprintf(w, "%-10s %-32s %s\n", r.ID, r.Category, r.Name)
	}
	if len(shown) < len(recs) {
		fmt.Fprintf(w, "... %d more\n", len(recs)-len(shown))
	}
	return nil
}

func CountsCommand() *cobra.Command {
	var (
		flagNamesOnly bool
		flagLimit     int
	)

	command := &cobra.Command{
		Use:   "counts",
		Short: "Print the most common breeds or names",
		Example: `  animalcache counts --limit 10
  animalcache counts --names`,
		Args: cobra.NoArgs,
	}

	command.Flags().BoolVar(&flagNamesOnly, "names", false, "Count names instead of breeds")
	command.Flags().IntVar(&flagLimit, "limit", 20, "Number of entries (0 for all)")

	command.RunE = func(cmd *cobra.Command, args []string) error {
		s, err := newSession(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		if _, err := s.build(cmd.Context()); err != nil {
			return err
		}

		counts, err := s.cache.CategoryCounts(flagLimit)
		if flagNamesOnly {
			counts, err = s.cache.NameCounts(flagLimit)
		}
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if flagJSON {
			return printJSON(out, counts)
		}
		for _, kc := range counts {
			fmt.Fprintf(out, "%7d  %s\n", kc.Count, kc.Key)
		}
		return nil
	}

	return command
}
