package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/tract-choropleth/internal/export"
)

var (
	exportXLSX  string
	exportToDB  bool
	exportTable string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the tract classes to a workbook and/or Postgres",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if exportXLSX == "" && !exportToDB {
			return eris.New("export: nothing to do (use --xlsx and/or --to-db)")
		}

		ctx := cmd.Context()
		env, err := initMap(ctx, "export", exportToDB)
		if err != nil {
			return err
		}
		defer env.Close()

		if exportXLSX != "" {
			if err := export.SaveXLSX(exportXLSX, env.Map); err != nil {
				return err
			}
			zap.L().Info("workbook written", zap.String("path", exportXLSX), zap.Int("tracts", env.Map.Len()))
		}

		if exportToDB {
			table := exportTable
			if table == "" {
				table = cfg.Export.Table
			}
			n, err := export.WriteClasses(ctx, env.Pool, table, env.Map)
			if err != nil {
				return err
			}
			zap.L().Info("tract classes upserted", zap.String("table", table), zap.Int64("rows", n))
		}

		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportXLSX, "xlsx", "", "write an xlsx workbook to this path")
	exportCmd.Flags().BoolVar(&exportToDB, "to-db", false, "upsert tract classes into Postgres")
	exportCmd.Flags().StringVar(&exportTable, "table", "", "target table (default from config)")
	rootCmd.AddCommand(exportCmd)
}
