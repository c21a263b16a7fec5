package main

import (
	"fmt"
	"strings"

	"github.com/cla7997/edl-timestamps/internal/hotkey"
	"github.com/spf13/cobra"
)

var keysCmd = &cobra.Command{
	Use:   "keys [combo...]",
	Short: "List hotkey names or check combos",
	Long: `Without arguments, keys lists the modifier and key names accepted in the
"hotkey" and "end_hotkey" settings. With arguments, each one is parsed and
printed in normalized form, e.g. "AltGr + F10" -> "alt gr+f10".`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return printKeys(cmd, args)
	},
}

func printKeys(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	if len(args) == 0 {
		fmt.Fprintf(out, "Modifiers: %s\n", strings.Join(hotkey.ModifierNames(), ", "))
		fmt.Fprintf(out, "Keys:      %s\n", strings.Join(hotkey.KeyNames(), ", "))
		fmt.Fprintln(out, "Join them with '+', e.g. \"alt gr+f10\".")
		return nil
	}

	invalid := 0
	for _, arg := range args {
		c, err := hotkey.ParseCombo(arg)
		if err != nil {
			fmt.Fprintf(out, "%q: %v\n", arg, err)
			invalid++
			continue
		}
		fmt.Fprintf(out, "%q -> %s\n", arg, c)
	}
	if invalid > 0 {
		return fmt.Errorf("%d of %d combos are invalid", invalid, len(args))
	}
	return nil
}
