package cli

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/quickwritereader/wideid/codec"
	"github.com/quickwritereader/wideid/types"
	"github.com/quickwritereader/wideid/wire"
)

func newEncodeCommand(a *app) *cobra.Command {
	var (
		useFile string
		format  string
		out     string
	)
	cmd := &cobra.Command{
		Use:   "encode [flags] [--] [ids...]",
		Short: "Convert decimal identifiers into a foreign int64 array",
		Long:  "Reads decimal identifiers from the arguments, or whitespace/comma separated from stdin, sends them through the outbound codec and prints the resulting array and its wire encoding. Flags go before the identifiers; put -- in front of a list whose first identifier is negative.",
		RunE: func(cmd *cobra.Command, args []string) error {
			override, err := codec.ParseOverride(useFile)
			if err != nil {
				return err
			}
			if format == "" {
				format = a.cfg.WireFormat
			}
			f, err := wire.ParseFormat(format)
			if err != nil {
				return err
			}
			if len(args) == 0 {
				if args, err = readTokens(cmd); err != nil {
					return err
				}
			}

			ctx := cmd.Context()
			ids, err := types.Normalize(types.AnySlice(args))
			if err != nil {
				return err
			}
			arr, err := a.codec.ToArray(ctx, ids, override)
			if err != nil {
				return err
			}
			defer arr.Close(ctx)
			fmt.Fprintln(cmd.ErrOrStderr(), arr)

			// echo what the runtime holds, via the inbound path
			back, err := a.codec.ToWide(ctx, arr)
			if err != nil {
				return err
			}
			return writeWire(cmd.OutOrStdout(), out, back, f)
		},
	}
	// anything after the first identifier is an identifier, even "-5"
	cmd.Flags().SetInterspersed(false)
	cmd.Flags().StringVar(&useFile, "use-file", "auto", "transfer strategy: auto, true (file) or false (inline)")
	cmd.Flags().StringVarP(&format, "format", "f", "", "wire format (default from config)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "write the wire encoding to a file")
	return cmd
}

func readTokens(cmd *cobra.Command) ([]string, error) {
	var tokens []string
	sc := bufio.NewScanner(cmd.InOrStdin())
	sc.Split(bufio.ScanWords)
	for sc.Scan() {
		for _, tok := range strings.Split(sc.Text(), ",") {
			if tok != "" {
				tokens = append(tokens, tok)
			}
		}
	}
	return tokens, sc.Err()
}
