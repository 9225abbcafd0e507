// productctl is a small CLI over the product store HTTP API. It drives the
// same client store the UI would use, so mutations keep a local mirror of
// the server collection for the duration of a command.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"product-store/internal/client"

	"github.com/spf13/cobra"
)

const requestTimeout = 15 * time.Second

var (
	apiBase string
	store   *client.Store

	rootCmd = &cobra.Command{
		Use:   "productctl",
		Short: "Manage products in the product store",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if env := os.Getenv("PRODUCTCTL_API"); env != "" && !cmd.Flags().Changed("api") {
				apiBase = env
			}
			store = client.New(apiBase)
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&apiBase, "api", "http://localhost:5000", "product store base URL")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List all products",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout)
			defer cancel()

			if err := store.Fetch(ctx); err != nil {
				return err
			}
			return printJSON(store.Products())
		},
	}

	var name, price, image string
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a product",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout)
			defer cancel()

			p, err := store.Create(ctx, map[string]any{
				"name":  name,
				"price": price,
				"image": image,
			})
			if err != nil {
				return err
			}
			return printJSON(p)
		},
	}
	createCmd.Flags().StringVar(&name, "name", "", "product name")
	createCmd.Flags().StringVar(&price, "price", "", "product price")
	createCmd.Flags().StringVar(&image, "image", "", "product image URL")
	_ = createCmd.MarkFlagRequired("name")
	_ = createCmd.MarkFlagRequired("price")
	_ = createCmd.MarkFlagRequired("image")

	var newName, newPrice, newImage string
	updateCmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update fields of a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			patch := map[string]any{}
			if cmd.Flags().Changed("name") {
				patch["name"] = newName
			}
			if cmd.Flags().Changed("price") {
				parsed, err := strconv.ParseFloat(newPrice, 64)
				if err != nil {
					return fmt.Errorf("invalid price %q", newPrice)
				}
				patch["price"] = parsed
			}
			if cmd.Flags().Changed("image") {
				patch["image"] = newImage
			}
			if len(patch) == 0 {
				return fmt.Errorf("nothing to update: pass at least one of --name, --price, --image")
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout)
			defer cancel()

			p, err := store.Update(ctx, args[0], patch)
			if err != nil {
				return err
			}
			return printJSON(p)
		},
	}
	updateCmd.Flags().StringVar(&newName, "name", "", "new product name")
	updateCmd.Flags().StringVar(&newPrice, "price", "", "new product price")
	updateCmd.Flags().StringVar(&newImage, "image", "", "new product image URL")

	deleteCmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout)
			defer cancel()

			if err := store.Delete(ctx, args[0]); err != nil {
				return err
			}
			fmt.Println("deleted", args[0])
			return nil
		},
	}

	healthCmd := &cobra.Command{
		Use:   "health",
		Short: "Check the server health endpoint",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout)
			defer cancel()

			req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiBase+"/health", nil)
			if err != nil {
				return err
			}
			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			var body map[string]any
			if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
				return err
			}
			return printJSON(body)
		},
	}

	rootCmd.AddCommand(listCmd, createCmd, updateCmd, deleteCmd, healthCmd)
}

func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
