package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/jobsift/jobsift/internal/logger"
	"github.com/jobsift/jobsift/internal/pipeline"
	"github.com/jobsift/jobsift/internal/report"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	PromptShowResults = "Show results"
	PromptSaveCSV     = "Save CSV report"
	PromptSaveHTML    = "Save HTML report"
	PromptDumpFile    = "Dump postings to file"
	PromptQuit        = "Quit"
)

var errExit = errors.New("exit requested")

var prompt = promptui.Select{
	Label: "What next?",
	Items: []string{PromptShowResults, PromptSaveCSV, PromptSaveHTML, PromptDumpFile, PromptQuit},
}

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Extract keyphrases from a skill description, fetch matching postings and rank them",
	Run: func(cmd *cobra.Command, _ []string) {
		search(cmd)
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().StringP("description", "t", "", "skill description to match postings against")
	searchCmd.Flags().StringP("description-file", "f", "", "file with the skill description")
	searchCmd.Flags().BoolP("auto-approve", "y", false, "do not prompt, show results and save the CSV report")
	searchCmd.Flags().String("csv-file", "", "path for the CSV report. Default is job_results.csv.")

	viper.BindPFlag("search.description", searchCmd.Flags().Lookup("description"))
	viper.BindPFlag("description-file", searchCmd.Flags().Lookup("description-file"))
	viper.BindPFlag("output.csv-file", searchCmd.Flags().Lookup("csv-file"))
}

// search is the main command for the cli.
func search(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the jobsift search", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	req := config.searchRequest()
	if req.Description == "" && config.descriptionFile() != "" {
		raw, err := os.ReadFile(config.descriptionFile())
		if err != nil {
			logger.Fatal("reading the description file", zap.Error(err))
		}
		req.Description = strings.TrimSpace(string(raw))
	}

	if req.Description == "" {
		logger.Fatal("description is required",
			zap.String("hint", "set the 'description' key under search in the configuration file or pass --description"),
		)
	}

	a, err := buildApp(ctx, config, logger)
	if err != nil {
		logger.Fatal("building the pipeline", zap.Error(err))
	}
	defer a.Close()

	result, err := a.pipeline.Run(ctx, req)
	if err != nil {
		logger.Fatal("running the search", zap.Error(err))
	}

	if result.Returned == 0 {
		logger.Info("exiting", zap.String("reason", "no postings found"))
		return
	}

	if cmd.Flag("auto-approve").Value.String() == "true" {
		for _, action := range []string{PromptShowResults, PromptSaveCSV} {
			if err := handleAction(action, logger, config, req, result); err != nil {
				logger.Fatal("exiting", zap.Error(err))
			}
		}

		return
	}

	for {
		_, action, err := prompt.Run()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}

		if err := handleAction(action, logger, config, req, result); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logger.Fatal("exiting", zap.Error(err))
		}
	}
}

func handleAction(action string, logger *zap.Logger, config *Config, req *pipeline.Request, result *pipeline.Result) error {
	switch action {
	case PromptShowResults:
		pretty, _ := json.MarshalIndent(report.Summaries(result.Postings), "", "  ")
		logger.Info(string(pretty), zap.Int("postings count", result.Returned))
		return nil
	case PromptSaveCSV:
		filename := config.csvFile()
		if err := report.SaveCSV(filename, result.Postings); err != nil {
			return fmt.Errorf("saving csv report: %w", err)
		}
		logger.Info("saved csv report", zap.String("filename", filename))
		return nil
	case PromptSaveHTML:
		page, err := result.Page(req)
		if err != nil {
			return fmt.Errorf("building html report: %w", err)
		}
		filename := config.htmlFile()
		if err := report.SaveHTML(filename, page); err != nil {
			return fmt.Errorf("saving html report: %w", err)
		}
		logger.Info("saved html report", zap.String("filename", filename))
		return nil
	case PromptDumpFile:
		filename, err := result.Postings.DumpToTmpFile()
		if err != nil {
			return fmt.Errorf("dump postings to file: %w", err)
		}
		logger.Info("dumping postings to file", zap.String("filename", filename))
		return nil
	case PromptQuit:
		logger.Info("exiting", zap.String("reason", "got quit from prompt"))
		return errExit
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}
