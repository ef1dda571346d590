// Copyright (c) Contributors to the Flatpak project.
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

package cli

import (
	"github.com/pkestene/flatpak/docs"
	"github.com/pkestene/flatpak/internal/transaction"
	"github.com/pkestene/flatpak/pkg/cmdline"
	"github.com/pkestene/flatpak/pkg/sylog"
	"github.com/spf13/cobra"
)

var (
	updateNoDeps       bool
	updateNoRelated    bool
	updateNoPull       bool
	updateNoDeploy     bool
	updateStopOnFail   bool
	updateCommitPinned string
)

var updateNoDepsFlag = cmdline.Flag{
	ID:           "updateNoDepsFlag",
	Value:        &updateNoDeps,
	DefaultValue: false,
	Name:         "no-deps",
	Usage:        "do not automatically install required runtimes",
}

var updateNoRelatedFlag = cmdline.Flag{
	ID:           "updateNoRelatedFlag",
	Value:        &updateNoRelated,
	DefaultValue: false,
	Name:         "no-related",
	Usage:        "do not update related refs (locale data, debug symbols)",
}

var updateNoPullFlag = cmdline.Flag{
	ID:           "updateNoPullFlag",
	Value:        &updateNoPull,
	DefaultValue: false,
	Name:         "no-pull",
	Usage:        "assume content is already fetched; do not contact the remote",
}

var updateNoDeployFlag = cmdline.Flag{
	ID:           "updateNoDeployFlag",
	Value:        &updateNoDeploy,
	DefaultValue: false,
	Name:         "no-deploy",
	Usage:        "fetch content but do not activate it",
}

var updateStopOnFailFlag = cmdline.Flag{
	ID:           "updateStopOnFailFlag",
	Value:        &updateStopOnFail,
	DefaultValue: false,
	Name:         "stop-on-first-error",
	Usage:        "abort the whole batch on the first failed operation instead of continuing",
}

var updateCommitFlag = cmdline.Flag{
	ID:           "updateCommitFlag",
	Value:        &updateCommitPinned,
	DefaultValue: "",
	Name:         "commit",
	Usage:        "update to this specific commit instead of the remote's latest",
}

func init() {
	addCmdInit(func(cmdManager *cmdline.CommandManager) {
		cmdManager.RegisterCmd(UpdateCmd)

		cmdManager.RegisterFlagForCmd(&updateNoDepsFlag, UpdateCmd)
		cmdManager.RegisterFlagForCmd(&updateNoRelatedFlag, UpdateCmd)
		cmdManager.RegisterFlagForCmd(&updateNoPullFlag, UpdateCmd)
		cmdManager.RegisterFlagForCmd(&updateNoDeployFlag, UpdateCmd)
		cmdManager.RegisterFlagForCmd(&updateStopOnFailFlag, UpdateCmd)
		cmdManager.RegisterFlagForCmd(&updateCommitFlag, UpdateCmd)
	})
}

// UpdateCmd flatpak update
var UpdateCmd = &cobra.Command{
	DisableFlagsInUseLine: true,
	Args:                  cobra.ArbitraryArgs,
	RunE:                  updateRun,
	Use:                   docs.UpdateUse,
	Short:                 docs.UpdateShort,
	Long:                  docs.UpdateLong,
	Example:               docs.UpdateExample,
}

func updateRun(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg := transaction.Config{
		NoPull:           updateNoPull,
		NoDeploy:         updateNoDeploy,
		AddDeps:          !updateNoDeps,
		AddRelated:       !updateNoRelated,
		StopOnFirstError: updateStopOnFail,
	}
	tr := newTransaction(cfg)

	if len(args) == 0 {
		return cmdline.CommandError("update requires at least one ref; updating every installed ref is not yet supported")
	}

	for _, refStr := range args {
		op, err := tr.AddUpdate(ctx, refStr, transaction.Inherit(), updateCommitPinned)
		if err != nil {
			return cmdline.FlagError(err.Error())
		}
		if op == nil {
			sylog.Infof("Skipping %s: origin remote is disabled", refStr)
		}
	}

	reportResult(tr.Run(ctx))
	return nil
}
