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
	"os"
	"strconv"

	"github.com/icon-project/btp2/common/cli"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/eosabi/abicodec/abi"
)

func NewAbiCommand(parentCmd *cobra.Command, parentVc *viper.Viper) (*cobra.Command, *viper.Viper) {
	rootCmd, rootVc := cli.NewCommand(parentCmd, parentVc, "abi", "Manage installed ABI documents")

	setCmd := &cobra.Command{
		Use:   "set",
		Short: "Install an ABI document under a contract id",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			contractStr, err := cmd.Flags().GetString("contract")
			if err != nil {
				return err
			}
			file, err := cmd.Flags().GetString("file")
			if err != nil {
				return err
			}
			id, err := strconv.ParseUint(contractStr, 10, 64)
			if err != nil {
				return err
			}
			b, err := os.ReadFile(file)
			if err != nil {
				return err
			}
			c := abi.Create()
			if err := c.SetABI(id, b); err != nil {
				return err
			}
			st, err := loadState()
			if err != nil {
				return err
			}
			st.Contracts[contractStr] = file
			if err := st.save(); err != nil {
				return err
			}
			cmd.Println("Operation success")
			return nil
		},
	}
	setFlags := setCmd.Flags()
	setFlags.String("contract", "", "contract id")
	setFlags.String("file", "", "abi document file path")
	cli.MarkAnnotationRequired(setFlags, "contract", "file")
	rootCmd.AddCommand(setCmd)
	return rootCmd, rootVc
}
