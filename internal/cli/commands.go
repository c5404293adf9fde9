package cli

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/huynhanx03/go-mongoapi/pkg/database/mongodb"
)

func insertCommand(a *app) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "insert [json]",
		Short: "Insert one document",
		Long:  `Insert one JSON object whose ChildType names the model type, e.g. {"ChildType":"Example","Name":"Ana"}.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := readPayload(cmd, args, file)
			if err != nil {
				return err
			}

			return a.withStore(cmd, func(ctx context.Context, s Store) error {
				m, err := s.Insert(ctx, payload, a.flags.typeName)
				if err != nil {
					return err
				}
				return a.print(cmd, m)
			})
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Read the payload from a file, - for stdin")
	return cmd
}

func insertManyCommand(a *app) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "insert-many [json-array]",
		Short: "Insert a JSON array of documents of one type",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := readPayload(cmd, args, file)
			if err != nil {
				return err
			}

			return a.withStore(cmd, func(ctx context.Context, s Store) error {
				inserted, err := s.InsertMany(ctx, payload, a.flags.typeName)
				if err != nil {
					return err
				}
				return a.print(cmd, inserted)
			})
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Read the payload from a file, - for stdin")
	return cmd
}

func selectCommand(a *app) *cobra.Command {
	var (
		filter string
		sorts  []string
		limit  int64
		skip   int64
	)

	cmd := &cobra.Command{
		Use:   "select",
		Short: "List documents matching a filter",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := make([]mongodb.FindOption, 0, len(sorts)+2)
			for _, s := range sorts {
				key, order := parseSort(s)
				if key == "" {
					return errors.Errorf("invalid sort %q", s)
				}
				opts = append(opts, mongodb.WithSort(key, order))
			}
			if limit > 0 {
				opts = append(opts, mongodb.WithLimit(limit))
			}
			if skip > 0 {
				opts = append(opts, mongodb.WithSkip(skip))
			}

			return a.withStore(cmd, func(ctx context.Context, s Store) error {
				found, err := s.Select(ctx, filter, a.flags.typeName, opts...)
				if err != nil {
					return err
				}
				return a.print(cmd, found)
			})
		},
	}

	cmd.Flags().StringVar(&filter, "filter", "", "MongoDB Extended JSON filter, empty matches all")
	cmd.Flags().StringSliceVar(&sorts, "sort", nil, "Sort field, prefix with - for descending (repeatable)")
	cmd.Flags().Int64Var(&limit, "limit", 0, "Maximum number of documents")
	cmd.Flags().Int64Var(&skip, "skip", 0, "Number of documents to skip")
	return cmd
}

func updateCommand(a *app) *cobra.Command {
	var (
		id          string
		assignments []string
	)

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Update the document with the given id",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fields, err := parseAssignments(assignments)
			if err != nil {
				return err
			}

			return a.withStore(cmd, func(ctx context.Context, s Store) error {
				m, err := identify(s, a.flags.typeName, id)
				if err != nil {
					return err
				}
				if err := s.Update(ctx, m, a.flags.typeName, fields); err != nil {
					return err
				}
				return a.print(cmd, map[string]any{"updated": id})
			})
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "Hex ObjectId of the document")
	cmd.Flags().StringArrayVar(&assignments, "set", nil, "Field assignment key=value, value parsed as JSON when possible (repeatable)")
	_ = cmd.MarkFlagRequired("id")
	_ = cmd.MarkFlagRequired("set")
	return cmd
}

func updateManyCommand(a *app) *cobra.Command {
	var (
		filter      string
		assignments []string
	)

	cmd := &cobra.Command{
		Use:   "update-many",
		Short: "Update every document matching a filter",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fields, err := parseAssignments(assignments)
			if err != nil {
				return err
			}

			return a.withStore(cmd, func(ctx context.Context, s Store) error {
				n, err := s.UpdateMany(ctx, a.flags.typeName, filter, fields)
				if err != nil {
					return err
				}
				return a.print(cmd, map[string]any{"modified": n})
			})
		},
	}

	cmd.Flags().StringVar(&filter, "filter", "", "MongoDB Extended JSON filter, empty matches all")
	cmd.Flags().StringArrayVar(&assignments, "set", nil, "Field assignment key=value, value parsed as JSON when possible (repeatable)")
	_ = cmd.MarkFlagRequired("set")
	return cmd
}

func deleteCommand(a *app) *cobra.Command {
	var (
		id         string
		collection string
	)

	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete the document with the given id",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(cmd, func(ctx context.Context, s Store) error {
				m, err := identify(s, a.flags.typeName, id)
				if err != nil {
					return err
				}
				if err := s.Delete(ctx, m, collection); err != nil {
					return err
				}
				return a.print(cmd, map[string]any{"deleted": id})
			})
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "Hex ObjectId of the document")
	cmd.Flags().StringVar(&collection, "collection", "", "Collection to delete from (default: the model type)")
	_ = cmd.MarkFlagRequired("id")
	return cmd
}

func deleteManyCommand(a *app) *cobra.Command {
	var (
		filter string
		all    bool
	)

	cmd := &cobra.Command{
		Use:   "delete-many",
		Short: "Delete every document matching a filter",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(filter) == "" && !all {
				return errors.New("refusing to delete the whole collection without --all")
			}

			return a.withStore(cmd, func(ctx context.Context, s Store) error {
				n, err := s.DeleteMany(ctx, a.flags.typeName, filter)
				if err != nil {
					return err
				}
				return a.print(cmd, map[string]any{"deleted": n})
			})
		},
	}

	cmd.Flags().StringVar(&filter, "filter", "", "MongoDB Extended JSON filter")
	cmd.Flags().BoolVar(&all, "all", false, "Allow an empty filter to delete every document")
	return cmd
}

// readPayload takes the payload from the single argument or from --file
func readPayload(cmd *cobra.Command, args []string, file string) (string, error) {
	switch {
	case file != "" && len(args) > 0:
		return "", errors.New("pass the payload as an argument or with --file, not both")
	case len(args) == 1:
		return args[0], nil
	case file == "-":
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", errors.Wrap(err, "failed to read stdin")
		}
		return string(data), nil
	case file != "":
		data, err := os.ReadFile(file)
		if err != nil {
			return "", errors.Wrap(err, "failed to read payload")
		}
		return string(data), nil
	}
	return "", errors.New("a json payload is required")
}

// identify builds an empty model of typeName carrying only the identity
func identify(s Store, typeName string, hex string) (mongodb.Model, error) {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return nil, errors.Wrapf(mongodb.ErrMissingID, "invalid id %q", hex)
	}

	m, err := s.Registry().New(typeName)
	if err != nil {
		return nil, err
	}
	m.SetID(id)
	return m, nil
}

func parseSort(s string) (string, int) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "-") {
		return strings.TrimPrefix(s, "-"), -1
	}
	return strings.TrimPrefix(s, "+"), 1
}
