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
	"os"
	"path/filepath"

	"github.com/icon-project/btp2/common/cli"
	"github.com/icon-project/btp2/common/config"
	"github.com/icon-project/btp2/common/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/eosabi/abicodec/api"
)

type serverConfig struct {
	config.FileConfig `json:",squash"`

	Address      string `json:"address"`
	DumpLogLevel string `json:"dump_log_level,omitempty"`
	LogLevel     string `json:"log_level"`
	ConsoleLevel string `json:"console_level"`
}

func readServerConfig(filePath string, cfg *serverConfig, vc *viper.Viper) error {
	f, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("fail to open config file=%s err=%+v", filePath, err)
	}
	defer f.Close()
	vc.SetConfigType("json")
	if err := vc.ReadConfig(f); err != nil {
		return fmt.Errorf("fail to read config file=%s err=%+v", filePath, err)
	}
	if err := vc.Unmarshal(cfg, cli.ViperDecodeOptJson); err != nil {
		return fmt.Errorf("fail to unmarshall config from env err=%+v", err)
	}
	cfg.FilePath, _ = filepath.Abs(filePath)
	return nil
}

func NewServerCommand(parentCmd *cobra.Command, parentVc *viper.Viper) (*cobra.Command, *viper.Viper) {
	rootCmd, rootVc := cli.NewCommand(parentCmd, parentVc, "server", "Run the HTTP/WebSocket conversion façade")
	cfg := &serverConfig{}
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if cfgFilePath := rootVc.GetString("config"); cfgFilePath != "" {
			if err := readServerConfig(cfgFilePath, cfg, rootVc); err != nil {
				return err
			}
		}
		return rootVc.Unmarshal(cfg, cli.ViperDecodeOptJson)
	}
	pFlags := rootCmd.PersistentFlags()
	pFlags.StringP("config", "c", "", "Parsing configuration file")
	pFlags.String("address", "localhost:8080", "server address")
	pFlags.String("dump_log_level", "trace", "request/response dump log level (trace,debug,info)")
	pFlags.String("log_level", "debug", "Global log level (trace,debug,info,warn,error,fatal,panic)")
	pFlags.String("console_level", "trace", "Console log level (trace,debug,info,warn,error,fatal,panic)")
	cli.BindPFlags(rootVc, pFlags)

	startCmd := &cobra.Command{
		Use:   "start",
		Short: "Start the server",
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return cli.ValidateFlagsWithViper(rootVc, cmd.Flags())
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			l := log.GlobalLogger()
			lv, err := log.ParseLevel(cfg.LogLevel)
			if err != nil {
				return err
			}
			l.SetLevel(lv)
			cv, err := log.ParseLevel(cfg.ConsoleLevel)
			if err != nil {
				return err
			}
			l.SetConsoleLevel(cv)
			dumpLv, err := log.ParseLevel(cfg.DumpLogLevel)
			if err != nil {
				return err
			}
			s := api.NewServer(cfg.Address, dumpLv, l)
			return s.Start()
		},
	}
	rootCmd.AddCommand(startCmd)
	return rootCmd, rootVc
}
