package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "modes",
		Short: "List the available modes and their quick actions",
		Run:   runModes,
	}
	RootCmd.AddCommand(cmd)
}

func runModes(cmd *cobra.Command, args []string) {
	catalog, err := loadCatalog()
	if err != nil {
		exitErr("load modes", err)
	}

	if formatFlag == "text" {
		for _, name := range catalog.Names() {
			p, _ := catalog.Get(name)
			fmt.Printf("%s (%s)\n", name, p.Label)
			for _, qa := range p.QuickActions {
				fmt.Printf("  - %s\n", qa)
			}
		}
		return
	}

	out := make(map[string]any, len(catalog.Names()))
	for _, name := range catalog.Names() {
		p, _ := catalog.Get(name)
		out[name] = p
	}
	b, _ := json.MarshalIndent(out, "", "  ")
	fmt.Println(string(b))
}
