// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package cli is the thin demonstration command surface over the broker
// core (spec.md Non-goals: "the demonstration CLI is not where the spec's
// functional requirements live"). It wires store/provisioner/capability/
// mcpbroker/workspace/session into a cobra command tree so the broker can
// be driven by hand from a terminal.
//
// Grounded on the teacher's cli/root.go (cobra root command, flag-backed
// subcommands, a package-level Logger, SilenceUsage).
package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Slipstream-Max/Agent-Environment-Protocol/internal/adapter/pyinterp"
	"github.com/Slipstream-Max/Agent-Environment-Protocol/internal/adapter/uvinstaller"
	"github.com/Slipstream-Max/Agent-Environment-Protocol/internal/capability/library"
	"github.com/Slipstream-Max/Agent-Environment-Protocol/internal/capability/skills"
	"github.com/Slipstream-Max/Agent-Environment-Protocol/internal/capability/tools"
	"github.com/Slipstream-Max/Agent-Environment-Protocol/internal/helper/posix"
	"github.com/Slipstream-Max/Agent-Environment-Protocol/internal/logger"
	"github.com/Slipstream-Max/Agent-Environment-Protocol/internal/mcpbroker"
	"github.com/Slipstream-Max/Agent-Environment-Protocol/internal/provisioner"
	"github.com/Slipstream-Max/Agent-Environment-Protocol/internal/session"
	"github.com/Slipstream-Max/Agent-Environment-Protocol/internal/store"
	"github.com/Slipstream-Max/Agent-Environment-Protocol/internal/workspace"
)

// ErrConfigRootRequired is returned when no -c/--config root is given.
var ErrConfigRootRequired = errors.New("config root must be specified with -c or --config")

var (
	configRoot   string
	globalLogger logger.Logger
)

// Execute builds and runs the aep command tree.
func Execute(ctx context.Context, version string, log logger.Logger) error {
	globalLogger = log
	exeName := posix.GetExecutableName()

	rootCmd := &cobra.Command{
		Use:          exeName,
		Short:        "Agent Environment Protocol broker (demonstration CLI)",
		Version:      version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if configRoot == "" {
				return ErrConfigRootRequired
			}
			return nil
		},
	}
	rootCmd.PersistentFlags().StringVarP(&configRoot, "config", "c", "", "capability configuration root directory")

	rootCmd.AddCommand(
		newToolsCmd(ctx),
		newSkillsCmd(ctx),
		newLibraryCmd(ctx),
		newMCPCmd(ctx),
		newWorkspaceCmd(),
		newExecCmd(ctx),
	)

	return rootCmd.Execute()
}

func openRoot() (*store.Root, error) {
	root, err := store.Open(configRoot)
	if err != nil {
		return nil, fmt.Errorf("cli: open config root: %w", err)
	}
	if err := root.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("cli: ensure directories: %w", err)
	}
	return root, nil
}

func newProvisioner() *provisioner.Provisioner {
	return provisioner.New(uvinstaller.New(globalLogger))
}

func newToolsCmd(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{Use: "tools", Short: "Manage tool modules"}

	var deps []string
	addCmd := &cobra.Command{
		Use:   "add <source> <name>",
		Short: "Add a tool module",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := openRoot()
			if err != nil {
				return err
			}
			h := tools.New(root, newProvisioner())
			path, err := h.Add(ctx, args[0], args[1], deps)
			if err != nil {
				return err
			}
			globalLogger.Printf("added tool %s -> %s", args[1], path)
			return nil
		},
	}
	addCmd.Flags().StringSliceVar(&deps, "deps", nil, "dependency specifiers")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List registered tools",
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := openRoot()
			if err != nil {
				return err
			}
			names, err := tools.New(root, newProvisioner()).List()
			if err != nil {
				return err
			}
			fmt.Print(renderNameTable("Tool", names))
			return nil
		},
	}

	removeCmd := &cobra.Command{
		Use:   "remove <name>",
		Short: "Remove a tool module",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := openRoot()
			if err != nil {
				return err
			}
			return tools.New(root, newProvisioner()).Remove(args[0])
		},
	}

	cmd.AddCommand(addCmd, listCmd, removeCmd)
	return cmd
}

func newSkillsCmd(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{Use: "skills", Short: "Manage skills"}

	var deps []string
	addCmd := &cobra.Command{
		Use:   "add <source> [name]",
		Short: "Add a skill (directory or single SKILL.md)",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := openRoot()
			if err != nil {
				return err
			}
			name := ""
			if len(args) == 2 {
				name = args[1]
			}
			path, err := skills.New(root, newProvisioner()).Add(ctx, args[0], name, deps)
			if err != nil {
				return err
			}
			globalLogger.Printf("added skill -> %s", path)
			return nil
		},
	}
	addCmd.Flags().StringSliceVar(&deps, "deps", nil, "dependency specifiers")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List registered skills",
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := openRoot()
			if err != nil {
				return err
			}
			names, err := skills.New(root, newProvisioner()).List()
			if err != nil {
				return err
			}
			fmt.Print(renderNameTable("Skill", names))
			return nil
		},
	}

	removeCmd := &cobra.Command{
		Use:   "remove <name>",
		Short: "Remove a skill",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := openRoot()
			if err != nil {
				return err
			}
			return skills.New(root, newProvisioner()).Remove(args[0])
		},
	}

	cmd.AddCommand(addCmd, listCmd, removeCmd)
	return cmd
}

func newLibraryCmd(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{Use: "library", Short: "Manage reference documents"}

	addCmd := &cobra.Command{
		Use:   "add <source> [name]",
		Short: "Add a reference document",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := openRoot()
			if err != nil {
				return err
			}
			name := ""
			if len(args) == 2 {
				name = args[1]
			}
			path, err := library.New(root).Add(args[0], name)
			if err != nil {
				return err
			}
			globalLogger.Printf("added library entry -> %s", path)
			return nil
		},
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List library entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := openRoot()
			if err != nil {
				return err
			}
			names, err := library.New(root).List()
			if err != nil {
				return err
			}
			fmt.Print(renderNameTable("Library entry", names))
			return nil
		},
	}

	removeCmd := &cobra.Command{
		Use:   "remove <name>",
		Short: "Remove a library entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := openRoot()
			if err != nil {
				return err
			}
			return library.New(root).Remove(args[0])
		},
	}

	cmd.AddCommand(addCmd, listCmd, removeCmd)
	return cmd
}

func newMCPCmd(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{Use: "mcp", Short: "Manage MCP server registrations"}

	var (
		command []string
		url     string
		deps    []string
	)
	addCmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Register an MCP server (stdio via --command, http via --url)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := openRoot()
			if err != nil {
				return err
			}

			rec := &store.MCPServerRecord{Name: args[0]}
			switch {
			case len(command) > 0:
				rec.Transport = store.TransportStdio
				rec.Command = command
			case url != "":
				rec.Transport = store.TransportHTTP
				rec.URL = url
			default:
				return fmt.Errorf("cli: one of --command or --url is required")
			}

			h := mcpbroker.New(root, newProvisioner(), globalLogger)
			path, err := h.Add(ctx, rec, deps)
			if err != nil {
				return err
			}
			globalLogger.Printf("registered mcp server %s -> %s", args[0], path)
			return nil
		},
	}
	addCmd.Flags().StringSliceVar(&command, "command", nil, "stdio launcher command and arguments")
	addCmd.Flags().StringVar(&url, "url", "", "streamable HTTP endpoint")
	addCmd.Flags().StringSliceVar(&deps, "deps", nil, "dependency specifiers")

	refreshCmd := &cobra.Command{
		Use:   "refresh <name>",
		Short: "Re-run discovery and recompile the stub",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := openRoot()
			if err != nil {
				return err
			}
			h := mcpbroker.New(root, newProvisioner(), globalLogger)
			path, err := h.Refresh(ctx, args[0])
			if err != nil {
				return err
			}
			globalLogger.Printf("refreshed mcp server %s -> %s", args[0], path)
			return nil
		},
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List registered MCP servers",
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := openRoot()
			if err != nil {
				return err
			}
			names, err := mcpbroker.New(root, newProvisioner(), globalLogger).List()
			if err != nil {
				return err
			}
			fmt.Print(renderNameTable("MCP server", names))
			return nil
		},
	}

	removeCmd := &cobra.Command{
		Use:   "remove <name>",
		Short: "Remove an MCP server registration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := openRoot()
			if err != nil {
				return err
			}
			return mcpbroker.New(root, newProvisioner(), globalLogger).Remove(args[0])
		},
	}

	cmd.AddCommand(addCmd, refreshCmd, listCmd, removeCmd)
	return cmd
}

func newWorkspaceCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "workspace", Short: "Bind/unbind a workspace to a configuration root"}

	var protocolDir string
	attachCmd := &cobra.Command{
		Use:   "attach <path>",
		Short: "Attach a workspace directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := openRoot()
			if err != nil {
				return err
			}
			binder, err := workspace.Attach(args[0], root, protocolDir)
			if err != nil {
				return err
			}
			globalLogger.Printf("attached %s -> %s", binder.Workspace(), binder.ProtocolDir())
			return nil
		},
	}
	attachCmd.Flags().StringVar(&protocolDir, "protocol-dir", "", "protocol directory name (default .agent)")

	detachCmd := &cobra.Command{
		Use:   "detach <path>",
		Short: "Detach a workspace directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := openRoot()
			if err != nil {
				return err
			}
			binder, err := workspace.Attach(args[0], root, protocolDir)
			if err != nil {
				return err
			}
			return binder.Detach()
		},
	}
	detachCmd.Flags().StringVar(&protocolDir, "protocol-dir", "", "protocol directory name (default .agent)")

	cmd.AddCommand(attachCmd, detachCmd)
	return cmd
}

func newExecCmd(ctx context.Context) *cobra.Command {
	var workspaceDir string

	cmd := &cobra.Command{
		Use:   "exec <command>",
		Short: "Run a single command through an interpreter session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := openRoot()
			if err != nil {
				return err
			}
			if workspaceDir == "" {
				workspaceDir = configRoot
			}

			sess := session.New(workspaceDir, root, pyinterp.New())
			result := sess.Exec(ctx, args[0])
			if result.Stdout != "" {
				fmt.Print(result.Stdout)
			}
			if result.Stderr != "" {
				globalLogger.Printf("%s", result.Stderr)
			}
			if result.ReturnCode != 0 {
				return fmt.Errorf("cli: command exited with code %d", result.ReturnCode)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&workspaceDir, "workspace", "", "workspace directory (default: config root)")
	return cmd
}
