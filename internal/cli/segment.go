package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/averyli/tutorchat/internal/textproc"
)

func init() {
	cmd := &cobra.Command{
		Use:   "segment [text]",
		Short: "Clean text and print its block segmentation",
		Run:   runSegment,
	}

	cmd.Flags().Bool("steps", true, "Detect numbered step blocks")

	RootCmd.AddCommand(cmd)
}

func runSegment(cmd *cobra.Command, args []string) {
	steps, _ := cmd.Flags().GetBool("steps")

	text, err := readInput(args)
	if err != nil {
		exitErr("read input", err)
	}

	blocks := textproc.Process(text, steps)

	if formatFlag == "text" {
		fmt.Println(renderBlocks(blocks))
		return
	}
	b, _ := json.MarshalIndent(blocks, "", "  ")
	fmt.Println(string(b))
}
