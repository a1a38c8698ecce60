package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quickwritereader/wideid/codec"
	"github.com/quickwritereader/wideid/ndarray"
	"github.com/quickwritereader/wideid/types"
	"github.com/quickwritereader/wideid/wire"
)

func newDecodeCommand(a *app) *cobra.Command {
	var (
		dtype       string
		order       string
		asCharacter bool
		format      string
		out         string
	)
	cmd := &cobra.Command{
		Use:   "decode <file>",
		Short: "Convert a raw foreign array file into identifiers",
		Long:  "Loads a raw int64 or uint64 array file into the foreign runtime and sends it through the inbound codec. Prints one decimal identifier per line with --as-character, otherwise the wire encoding.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dt, err := ndarray.ParseDtype(dtype)
			if err != nil {
				return err
			}
			if order == "" {
				order = a.cfg.ByteOrder
			}
			bo, err := types.ParseByteOrder(order)
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

			ctx := cmd.Context()
			rt, err := a.provider.Runtime(ctx)
			if err != nil {
				return err
			}
			arr, err := rt.FromFile(ctx, args[0], dt, bo)
			if err != nil {
				return err
			}
			defer arr.Close(ctx)

			res, err := a.codec.Inbound(ctx, arr, codec.InboundOptions{AsCharacter: asCharacter})
			if err != nil {
				return err
			}
			if asCharacter {
				for _, s := range res.Strings {
					fmt.Fprintln(cmd.OutOrStdout(), s)
				}
				return nil
			}
			return writeWire(cmd.OutOrStdout(), out, res.IDs, f)
		},
	}
	cmd.Flags().StringVar(&dtype, "dtype", "int64", "element type of the file: int64 or uint64")
	cmd.Flags().StringVar(&order, "order", "", "byte order of the file: little, big or native (default from config)")
	cmd.Flags().BoolVar(&asCharacter, "as-character", false, "print exact decimal strings")
	cmd.Flags().StringVarP(&format, "format", "f", "", "wire format (default from config)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "write the wire encoding to a file")
	return cmd
}
