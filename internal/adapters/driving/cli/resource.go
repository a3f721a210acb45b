package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/gfacade/internal/core/domain"
)

var (
	getParent      string
	deleteParent   string
	listParent     string
	insertParent   string
	updateParent   string
	downloadParent string

	listPageSize  int64
	listPageToken string
	listFilter    string
	listAll       bool

	insertFile     string
	updateFile     string
	downloadOutput string
)

var getCmd = &cobra.Command{
	Use:   "get <api> <resource> <id>",
	Short: "Retrieve one item",
	Args:  cobra.ExactArgs(3),
	RunE:  runGet,
}

var deleteCmd = &cobra.Command{
	Use:   "delete <api> <resource> <id>",
	Short: "Delete one item",
	Args:  cobra.ExactArgs(3),
	RunE:  runDelete,
}

var listCmd = &cobra.Command{
	Use:   "list <api> <resource>",
	Short: "List items",
	Long: `List one page of items. --page-token continues from a previous page;
--all follows page tokens until the collection is exhausted.`,
	Args: cobra.ExactArgs(2),
	RunE: runList,
}

var insertCmd = &cobra.Command{
	Use:   "insert <api> <resource>",
	Short: "Create an item from a JSON document",
	Long:  `Create an item from the JSON document in --file ("-" reads stdin).`,
	Args:  cobra.ExactArgs(2),
	RunE:  runInsert,
}

var updateCmd = &cobra.Command{
	Use:   "update <api> <resource> <id>",
	Short: "Update an item from a JSON document",
	Long:  `Update an item from the JSON document in --file ("-" reads stdin).`,
	Args:  cobra.ExactArgs(3),
	RunE:  runUpdate,
}

var downloadCmd = &cobra.Command{
	Use:   "download <api> <resource> <id>",
	Short: "Download an item's content",
	Long: `Download an item's content to stdout, or to the file named by -o.
Google documents are exported, spreadsheets are rendered as CSV.`,
	Args: cobra.ExactArgs(3),
	RunE: runDownload,
}

func init() {
	getCmd.Flags().StringVar(&getParent, "parent", "", "parent of the collection, e.g. a spreadsheet id")
	deleteCmd.Flags().StringVar(&deleteParent, "parent", "", "parent of the collection")
	listCmd.Flags().StringVar(&listParent, "parent", "", "parent of the collection")
	insertCmd.Flags().StringVar(&insertParent, "parent", "", "parent of the collection")
	updateCmd.Flags().StringVar(&updateParent, "parent", "", "parent of the collection")
	downloadCmd.Flags().StringVar(&downloadParent, "parent", "", "parent of the collection")

	listCmd.Flags().Int64Var(&listPageSize, "page-size", 0, "maximum items per page (0 uses the API default)")
	listCmd.Flags().StringVar(&listPageToken, "page-token", "", "token of the page to return")
	listCmd.Flags().StringVar(&listFilter, "filter", "", "API specific filter")
	listCmd.Flags().BoolVar(&listAll, "all", false, "follow page tokens to the end")

	insertCmd.Flags().StringVarP(&insertFile, "file", "f", "", `JSON document ("-" for stdin)`)
	_ = insertCmd.MarkFlagRequired("file")
	updateCmd.Flags().StringVarP(&updateFile, "file", "f", "", `JSON document ("-" for stdin)`)
	_ = updateCmd.MarkFlagRequired("file")
	downloadCmd.Flags().StringVarP(&downloadOutput, "output", "o", "", "write to this file instead of stdout")

	rootCmd.AddCommand(getCmd, deleteCmd, listCmd, insertCmd, updateCmd, downloadCmd)
}

func runGet(cmd *cobra.Command, args []string) error {
	ref, err := resourceRef(args, getParent)
	if err != nil {
		return err
	}
	item, err := facadeService.Get(context.Background(), ref, args[2])
	if err != nil {
		return fmt.Errorf("get failed: %w", err)
	}
	defer printStats(cmd)
	return printJSON(cmd, item)
}

func runDelete(cmd *cobra.Command, args []string) error {
	ref, err := resourceRef(args, deleteParent)
	if err != nil {
		return err
	}
	if err := facadeService.Delete(context.Background(), ref, args[2]); err != nil {
		return fmt.Errorf("delete failed: %w", err)
	}
	defer printStats(cmd)
	cmd.Printf("Deleted %s %s\n", ref, args[2])
	return nil
}

func runList(cmd *cobra.Command, args []string) error {
	ref, err := resourceRef(args, listParent)
	if err != nil {
		return err
	}
	page, err := facadeService.List(context.Background(), ref, domain.ListOptions{
		PageSize:  listPageSize,
		PageToken: listPageToken,
		Filter:    listFilter,
		All:       listAll,
	})
	if err != nil {
		return fmt.Errorf("list failed: %w", err)
	}
	defer printStats(cmd)

	data, err := json.Marshal(page)
	if err != nil {
		return fmt.Errorf("failed to marshal page: %w", err)
	}
	return printJSON(cmd, data)
}

func runInsert(cmd *cobra.Command, args []string) error {
	ref, err := resourceRef(args, insertParent)
	if err != nil {
		return err
	}
	body, err := readBody(cmd, insertFile)
	if err != nil {
		return err
	}
	item, err := facadeService.Insert(context.Background(), ref, body)
	if err != nil {
		return fmt.Errorf("insert failed: %w", err)
	}
	defer printStats(cmd)
	return printJSON(cmd, item)
}

func runUpdate(cmd *cobra.Command, args []string) error {
	ref, err := resourceRef(args, updateParent)
	if err != nil {
		return err
	}
	body, err := readBody(cmd, updateFile)
	if err != nil {
		return err
	}
	item, err := facadeService.Update(context.Background(), ref, args[2], body)
	if err != nil {
		return fmt.Errorf("update failed: %w", err)
	}
	defer printStats(cmd)
	return printJSON(cmd, item)
}

func runDownload(cmd *cobra.Command, args []string) error {
	ref, err := resourceRef(args, downloadParent)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if downloadOutput != "" {
		f, err := os.Create(downloadOutput)
		if err != nil {
			return fmt.Errorf("failed to create output: %w", err)
		}
		defer f.Close()
		w = f
	}

	contentType, err := facadeService.Download(context.Background(), ref, args[2], w)
	if err != nil {
		return fmt.Errorf("download failed: %w", err)
	}
	defer printStats(cmd)
	if downloadOutput != "" {
		cmd.Printf("Saved %s (%s)\n", downloadOutput, contentType)
	}
	return nil
}

// resourceRef builds the ref from "<api> <resource>" arguments.
func resourceRef(args []string, parent string) (domain.ResourceRef, error) {
	if facadeService == nil {
		return domain.ResourceRef{}, errors.New("facade service not configured")
	}
	api := domain.APIName(args[0])
	if !api.Valid() {
		return domain.ResourceRef{}, fmt.Errorf("%w: %s", domain.ErrUnknownAPI, args[0])
	}
	return domain.ResourceRef{API: api, Resource: args[1], Parent: parent}, nil
}

func readBody(cmd *cobra.Command, path string) (json.RawMessage, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read body: %w", err)
	}
	if !json.Valid(data) {
		return nil, fmt.Errorf("%w: %s is not valid JSON", domain.ErrInvalidInput, path)
	}
	return data, nil
}

func printJSON(cmd *cobra.Command, data []byte) error {
	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "  "); err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}
	cmd.Println(buf.String())
	return nil
}
