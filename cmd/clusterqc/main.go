// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the clusterqc CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the clusterqc CLI.
var rootCmd = &cobra.Command{
	Use:   "clusterqc",
	Short: "Sanity checks for Xe-centered molecular cluster geometries",
	Long: `clusterqc performs quality control on batches of molecular-cluster geometry
files. It locates Xenon atoms in each cluster, counts neighboring atoms within
a spherical cutoff, and flags clusters whose Xe coordination number falls
below a threshold. Anomalous clusters can be moved aside so downstream
pipeline stages never seed from them.

Use "check" for a directory of cluster folders, "trajectory" for a
multi-frame XYZ file, and "history" to inspect past runs.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./clusterqc.yaml or ~/.config/clusterqc/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("clusterqc")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "clusterqc"))
		}
	}

	viper.SetEnvPrefix("CLUSTERQC")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// configKey maps a flag name to its config-file key.
func configKey(flag string) string {
	return strings.ReplaceAll(flag, "-", "_")
}

// Flag resolution order: explicit flag, then config file, then flag default.

func flagFloat64(cmd *cobra.Command, name string) float64 {
	if !cmd.Flags().Changed(name) && viper.IsSet(configKey(name)) {
		return viper.GetFloat64(configKey(name))
	}
	v, _ := cmd.Flags().GetFloat64(name)
	return v
}

func flagInt(cmd *cobra.Command, name string) int {
	if !cmd.Flags().Changed(name) && viper.IsSet(configKey(name)) {
		return viper.GetInt(configKey(name))
	}
	v, _ := cmd.Flags().GetInt(name)
	return v
}

func flagString(cmd *cobra.Command, name string) string {
	if !cmd.Flags().Changed(name) && viper.IsSet(configKey(name)) {
		return viper.GetString(configKey(name))
	}
	v, _ := cmd.Flags().GetString(name)
	return v
}

func flagBool(cmd *cobra.Command, name string) bool {
	if !cmd.Flags().Changed(name) && viper.IsSet(configKey(name)) {
		return viper.GetBool(configKey(name))
	}
	v, _ := cmd.Flags().GetBool(name)
	return v
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
