// @title 审计问卷后端 API
// @version 1.0
// @description 审计问卷管理：问卷发布、分配、作答、结果统计与导出。

// @host localhost:8080
// @BasePath /api
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization

package main

import (
	"audit_survey_backend/internal/app"
	"audit_survey_backend/internal/config"
	"audit_survey_backend/internal/service"
	"audit_survey_backend/pkg/logger"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var configDir string

func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(configDir)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logger.InitLogger(cfg)
	return cfg, nil
}

func serveCmd() *cobra.Command {
	var migrate, migrateOnly bool
	cmd := &cobra.Command{
		Use:   "audit-survey",
		Short: "审计问卷后端服务",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			defer logger.Log.Sync()

			cfg.ForceMigrate = migrate || migrateOnly
			cfg.MigrateOnly = migrateOnly

			application, err := app.NewApp(cfg)
			if err != nil {
				logger.Log.Error("Failed to start", zap.Error(err))
				return err
			}

			// 迁移完成后直接退出
			if migrateOnly {
				application.Close()
				logger.Log.Info("数据库迁移完成，退出程序")
				return nil
			}
			return application.Run()
		},
	}
	cmd.Flags().BoolVar(&migrate, "migrate", false, "启动时强制执行数据库迁移（即使是 release 模式）")
	cmd.Flags().BoolVar(&migrateOnly, "migrate-only", false, "只执行数据库迁移，完成后退出")
	return cmd
}

func exportCmd() *cobra.Command {
	var (
		format  string
		output  string
		status  string
		search  string
		sortBy  string
		order   string
		archive bool
	)
	cmd := &cobra.Command{
		Use:   "export <results|surveys|assignments> [surveyID]",
		Short: "导出问卷结果、问卷列表或分配列表",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind := strings.ToLower(args[0])
			if kind != "surveys" && len(args) < 2 {
				return fmt.Errorf("%s export needs a survey id", kind)
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			defer logger.Log.Sync()
			// 命令行导出不需要模拟延迟
			cfg.Mock = config.MockConfig{}

			application, err := app.NewApp(cfg)
			if err != nil {
				return err
			}
			defer application.Close()

			sortOrder, err := service.ParseSortOrder(order, service.SortDesc)
			if err != nil {
				return err
			}
			q := service.ListQuery{Status: status, Search: search, Sort: sortBy, Order: sortOrder}

			ctx := cmd.Context()
			exports := application.Exports()
			var file *service.ExportFile
			switch kind {
			case "results":
				f, err := service.ParseExportFormat(format)
				if err != nil {
					return err
				}
				file, err = exports.ExportResults(ctx, args[1], f, archive)
				if err != nil {
					return err
				}
			case "surveys":
				file, err = exports.ExportSurveys(ctx, q, archive)
			case "assignments":
				file, err = exports.ExportAssignments(ctx, args[1], q, archive)
			default:
				return fmt.Errorf("unknown export %q", args[0])
			}
			if err != nil {
				return err
			}

			if output == "" {
				output = file.Filename
			}
			if output == "-" {
				_, err = cmd.OutOrStdout().Write(file.Data)
				return err
			}
			if err := os.WriteFile(output, file.Data, 0644); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d bytes)\n", output, len(file.Data))
			if file.URL != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "archived at %s\n", file.URL)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "CSV", "结果导出格式 CSV / JSON")
	cmd.Flags().StringVarP(&output, "output", "o", "", "输出文件，- 表示标准输出")
	cmd.Flags().StringVar(&status, "status", "", "状态筛选")
	cmd.Flags().StringVar(&search, "q", "", "搜索")
	cmd.Flags().StringVar(&sortBy, "sort", "", "排序字段")
	cmd.Flags().StringVar(&order, "order", "", "asc / desc")
	cmd.Flags().BoolVar(&archive, "archive", false, "同时上传到对象存储")
	return cmd
}

func templatesCmd() *cobra.Command {
	var path string
	return &cobra.Command{
		Use:   "templates [file]",
		Short: "校验并列出问卷模板",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				path = args[0]
			}
			tpls, err := service.LoadTemplates(path)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, t := range tpls {
				fmt.Fprintf(out, "%-20s %-32s %d questions\n", t.ID, t.Name, len(t.Questions))
			}
			return nil
		},
	}
}

func main() {
	root := serveCmd()
	root.PersistentFlags().StringVar(&configDir, "config", "configs", "配置文件目录")
	root.AddCommand(exportCmd(), templatesCmd())

	if err := root.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
