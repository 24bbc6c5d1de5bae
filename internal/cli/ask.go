package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/averyli/tutorchat/internal/chat"
	"github.com/averyli/tutorchat/internal/memory"
	"github.com/averyli/tutorchat/internal/responder"
)

func init() {
	cmd := &cobra.Command{
		Use:   "ask <prompt>",
		Short: "Send a prompt in the selected mode",
		Args:  cobra.MinimumNArgs(1),
		Run:   runAsk,
	}

	cmd.Flags().StringP("mode", "m", "study", "Mode: study, research, creative, fun, debate")

	RootCmd.AddCommand(cmd)
}

func runAsk(cmd *cobra.Command, args []string) {
	modeName, _ := cmd.Flags().GetString("mode")
	prompt := strings.Join(args, " ")

	log := newLogger()
	defer log.Sync()

	catalog, err := loadCatalog()
	if err != nil {
		exitErr("load modes", err)
	}

	store, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer store.Close()

	session := chat.NewSession(
		catalog,
		memory.New(store, log),
		store,
		responder.NewFromEnv(log, false),
		responder.NewFromEnv(log, true),
		log,
	)

	result, err := session.Send(cmd.Context(), userFlag, modeName, prompt)
	if err != nil {
		exitErr("send", err)
	}

	if formatFlag == "text" {
		fmt.Println(renderResult(result))
		return
	}
	b, _ := json.MarshalIndent(result, "", "  ")
	fmt.Println(string(b))
}
