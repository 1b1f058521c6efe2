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
	"fmt"
	"strconv"

	"github.com/icon-project/btp2/common/cli"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/eosabi/abicodec/abi"
)

func NewNameCommand(parentCmd *cobra.Command, parentVc *viper.Viper) (*cobra.Command, *viper.Viper) {
	rootCmd, rootVc := cli.NewCommand(parentCmd, parentVc, "name", "Convert between the name identifier and its base-32 text form")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "to-string VALUE",
		Short: "Print the text form of a uint64 name value",
		Args:  cli.ArgsWithDefaultErrorFunc(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil {
				return err
			}
			fmt.Println(abi.NameToString(v))
			return nil
		},
	})
	rootCmd.AddCommand(&cobra.Command{
		Use:   "from-string TEXT",
		Short: "Print the uint64 value of a name's text form",
		Args:  cli.ArgsWithDefaultErrorFunc(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := abi.StringToName(args[0])
			if err != nil {
				return err
			}
			fmt.Println(v)
			return nil
		},
	})
	return rootCmd, rootVc
}
