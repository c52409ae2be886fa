package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/liminos-studio/site/internal/prefs"
)

var prefsScope string

var prefsCmd = &cobra.Command{
	Use:   "prefs",
	Short: "Inspect or change stored preferences",
	Long: `Reads and writes the theme and language preferences kept in the data
directory. The cli scope is the one used by liminos render; server
visitors are stored under visitor:<id>.`,
}

var prefsGetCmd = &cobra.Command{
	Use:   "get <theme|lang>",
	Short: "Print the effective value of a preference",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		database, err := openDatabase(cfg)
		if err != nil {
			return err
		}
		defer database.Close()

		ctx := context.Background()
		p := prefs.New(prefs.NewSQLiteStore(database, prefsScope), cfg.Defaults.Theme, cfg.Defaults.Language)
		switch args[0] {
		case prefs.KeyTheme:
			fmt.Println(p.Theme(ctx))
		case prefs.KeyLang:
			fmt.Println(p.Lang(ctx))
		default:
			return fmt.Errorf("unknown preference %q", args[0])
		}
		return nil
	},
}

var prefsSetCmd = &cobra.Command{
	Use:   "set <theme|lang> <value>",
	Short: "Store a preference",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]
		if err := prefs.CheckValue(key, value); err != nil {
			return err
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		database, err := openDatabase(cfg)
		if err != nil {
			return err
		}
		defer database.Close()

		if err := prefs.NewSQLiteStore(database, prefsScope).Set(context.Background(), key, value); err != nil {
			return err
		}
		fmt.Printf("%s = %s (scope %s)\n", key, value, prefsScope)
		return nil
	},
}

var prefsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the stored preferences of a scope",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		database, err := openDatabase(cfg)
		if err != nil {
			return err
		}
		defer database.Close()

		values, err := prefs.NewSQLiteStore(database, prefsScope).List(context.Background())
		if err != nil {
			return err
		}
		if len(values) == 0 {
			fmt.Printf("No preferences stored for scope %s\n", prefsScope)
			return nil
		}
		for _, k := range prefs.SortedKeys(values) {
			fmt.Printf("%s = %s\n", k, values[k])
		}
		return nil
	},
}

func init() {
	prefsCmd.PersistentFlags().StringVar(&prefsScope, "scope", "cli", "preference scope")
	prefsCmd.AddCommand(prefsGetCmd, prefsSetCmd, prefsListCmd)
	rootCmd.AddCommand(prefsCmd)
}
