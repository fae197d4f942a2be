package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/JsAppNinja/blesta-sub003/internal/app"
	"github.com/JsAppNinja/blesta-sub003/internal/bootstrap"
	"github.com/JsAppNinja/blesta-sub003/internal/domain/cron"
	"github.com/JsAppNinja/blesta-sub003/internal/pkg/logger"

	"github.com/spf13/cobra"
)

// RunCronCmd runs the due tasks of one company or of every company. With
// --task only that task runs, regardless of its schedule.
func RunCronCmd(cmd *cobra.Command, _ []string) error {
	companyID, err := cmd.Flags().GetString("company")
	if err != nil {
		return fmt.Errorf("invalid company flag: %w", err)
	}
	taskKey, err := cmd.Flags().GetString("task")
	if err != nil {
		return fmt.Errorf("invalid task flag: %w", err)
	}
	if taskKey != "" && companyID == "" {
		return fmt.Errorf("--task requires --company")
	}

	return withContainer(cmd, func(ctx context.Context, c *bootstrap.Container, log logger.Logger) error {
		now := time.Now()

		if companyID == "" {
			scheduler, err := app.NewScheduler(c.Cron, c.StaffRepo, time.Minute, log)
			if err != nil {
				return err
			}
			return scheduler.RunAll(ctx, now)
		}

		var result *cron.Result
		if taskKey != "" {
			result, err = c.Cron.RunTask(ctx, companyID, taskKey, now)
		} else {
			result, err = c.Cron.RunDue(ctx, companyID, now)
		}
		if err != nil {
			return err
		}

		printResult(cmd, result)
		if failed := result.Failed(); failed > 0 {
			return fmt.Errorf("%d of %d tasks failed", failed, len(result.Tasks))
		}
		return nil
	})
}

func printResult(cmd *cobra.Command, result *cron.Result) {
	out := cmd.OutOrStdout()
	if len(result.Tasks) == 0 {
		fmt.Fprintln(out, "No tasks were due.")
		return
	}
	for _, task := range result.Tasks {
		switch {
		case task.Error != "":
			fmt.Fprintf(out, "%s\t%s\t%s\n", task.Key, task.Status, task.Error)
		default:
			fmt.Fprintf(out, "%s\t%s\t%s\n", task.Key, task.Status, task.Output)
		}
	}
}

// InitCronCommands registers cron-related commands
func InitCronCommands(rootCmd *cobra.Command) error {
	cronCmd := &cobra.Command{
		Use:   "cron",
		Short: "Run scheduled tasks",
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run due cron tasks",
		Args:  cobra.NoArgs,
		RunE:  RunCronCmd,
	}
	runCmd.Flags().StringP("company", "", "", "Company ID; all companies when empty")
	runCmd.Flags().StringP("task", "", "", "Run only this task key")
	cronCmd.AddCommand(runCmd)

	rootCmd.AddCommand(cronCmd)
	return nil
}
