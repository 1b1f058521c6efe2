/*
 * Copyright 2023 ICON Foundation
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package main

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/icon-project/btp2/common/cli"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// readArg reads path, or stdin when path is "-".
func readArg(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

func NewConvertCommand(parentCmd *cobra.Command, parentVc *viper.Viper) (*cobra.Command, *viper.Viper) {
	rootCmd, rootVc := cli.NewCommand(parentCmd, parentVc, "convert", "Convert values between JSON and binary form")

	jsonToBinCmd := &cobra.Command{
		Use:   "json-to-bin JSON_FILE",
		Short: "Encode a JSON value to binary hex",
		Args:  cli.ArgsWithDefaultErrorFunc(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			contractStr, err := cmd.Flags().GetString("contract")
			if err != nil {
				return err
			}
			typeName, err := cmd.Flags().GetString("type")
			if err != nil {
				return err
			}
			reorderable, err := cmd.Flags().GetBool("reorderable")
			if err != nil {
				return err
			}
			id, err := strconv.ParseUint(contractStr, 10, 64)
			if err != nil {
				return err
			}
			jsonText, err := readArg(args[0])
			if err != nil {
				return err
			}
			st, err := loadState()
			if err != nil {
				return err
			}
			c, err := restoreContext(st)
			if err != nil {
				return err
			}
			if err := c.JSONToBin(id, typeName, jsonText, reorderable); err != nil {
				return err
			}
			fmt.Println(c.GetBinHex())
			return nil
		},
	}
	jtbFlags := jsonToBinCmd.Flags()
	jtbFlags.String("contract", "", "contract id")
	jtbFlags.String("type", "", "type name")
	jtbFlags.Bool("reorderable", false, "decode struct object fields by key instead of declared order")
	cli.MarkAnnotationRequired(jtbFlags, "contract", "type")
	rootCmd.AddCommand(jsonToBinCmd)

	binToJsonCmd := &cobra.Command{
		Use:   "bin-to-json HEX_FILE",
		Short: "Decode binary hex to a JSON value",
		Args:  cli.ArgsWithDefaultErrorFunc(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			contractStr, err := cmd.Flags().GetString("contract")
			if err != nil {
				return err
			}
			typeName, err := cmd.Flags().GetString("type")
			if err != nil {
				return err
			}
			id, err := strconv.ParseUint(contractStr, 10, 64)
			if err != nil {
				return err
			}
			hexText, err := readArg(args[0])
			if err != nil {
				return err
			}
			binary, err := hex.DecodeString(strings.TrimSpace(string(hexText)))
			if err != nil {
				return err
			}
			st, err := loadState()
			if err != nil {
				return err
			}
			c, err := restoreContext(st)
			if err != nil {
				return err
			}
			out, err := c.BinToJSON(id, typeName, binary)
			if err != nil {
				return err
			}
			fmt.Println(out)
			return nil
		},
	}
	btjFlags := binToJsonCmd.Flags()
	btjFlags.String("contract", "", "contract id")
	btjFlags.String("type", "", "type name")
	cli.MarkAnnotationRequired(btjFlags, "contract", "type")
	rootCmd.AddCommand(binToJsonCmd)

	return rootCmd, rootVc
}
