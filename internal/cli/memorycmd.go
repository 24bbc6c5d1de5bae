package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/averyli/tutorchat/internal/memory"
)

func init() {
	memCmd := &cobra.Command{
		Use:   "memory",
		Short: "Inspect or manage stored memory",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List the user's memory records, newest first",
		Run:   runMemoryList,
	}
	listCmd.Flags().StringP("category", "c", memory.CategoryStudy, "Category: study or fun")

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove the user's memory records",
		Run:   runMemoryClear,
	}
	clearCmd.Flags().StringP("category", "c", "", "Category to clear (default: all)")

	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Show database statistics",
		Run:   runMemoryStats,
	}

	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Dump the user's records and conversation history as JSON",
		Run:   runMemoryExport,
	}

	memCmd.AddCommand(listCmd, clearCmd, statsCmd, exportCmd)
	RootCmd.AddCommand(memCmd)
}

func runMemoryList(cmd *cobra.Command, args []string) {
	category, _ := cmd.Flags().GetString("category")

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	records, err := s.Query(cmd.Context(), userFlag, category)
	if err != nil {
		exitErr("query", err)
	}

	if formatFlag == "text" {
		for _, r := range records {
			fmt.Printf("%s  [%s] %s\n", r.CreatedAt.Format("2006-01-02 15:04"), r.Category, r.Content)
		}
		return
	}
	b, _ := json.MarshalIndent(records, "", "  ")
	fmt.Println(string(b))
}

func runMemoryClear(cmd *cobra.Command, args []string) {
	category, _ := cmd.Flags().GetString("category")

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	categories := []string{memory.CategoryStudy, memory.CategoryFun}
	label := "all"
	if category != "" {
		categories = []string{category}
		label = category
	}
	for _, c := range categories {
		if err := s.Clear(cmd.Context(), userFlag, c); err != nil {
			exitErr("clear", err)
		}
	}
	fmt.Printf("cleared %s memory for %s\n", label, userFlag)
}

func runMemoryStats(cmd *cobra.Command, args []string) {
	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	stats, err := s.Stats(cmd.Context(), getDBPath())
	if err != nil {
		exitErr("stats", err)
	}

	b, _ := json.MarshalIndent(stats, "", "  ")
	fmt.Println(string(b))
}

func runMemoryExport(cmd *cobra.Command, args []string) {
	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	data, err := s.Export(cmd.Context(), userFlag)
	if err != nil {
		exitErr("export", err)
	}

	b, _ := json.MarshalIndent(data, "", "  ")
	fmt.Println(string(b))
}
