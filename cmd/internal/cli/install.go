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
	installNoDeps     bool
	installNoRelated  bool
	installNoPull     bool
	installNoDeploy   bool
	installOCIFrom    string
	installOCITag     string
	installSubpaths   []string
	installStopOnFail bool
)

var installNoDepsFlag = cmdline.Flag{
	ID:           "installNoDepsFlag",
	Value:        &installNoDeps,
	DefaultValue: false,
	Name:         "no-deps",
	Usage:        "do not automatically install required runtimes",
}

var installNoRelatedFlag = cmdline.Flag{
	ID:           "installNoRelatedFlag",
	Value:        &installNoRelated,
	DefaultValue: false,
	Name:         "no-related",
	Usage:        "do not install related refs (locale data, debug symbols)",
}

var installNoPullFlag = cmdline.Flag{
	ID:           "installNoPullFlag",
	Value:        &installNoPull,
	DefaultValue: false,
	Name:         "no-pull",
	Usage:        "assume content is already fetched; do not contact the remote",
}

var installNoDeployFlag = cmdline.Flag{
	ID:           "installNoDeployFlag",
	Value:        &installNoDeploy,
	DefaultValue: false,
	Name:         "no-deploy",
	Usage:        "fetch content but do not activate it",
}

var installFromFlag = cmdline.Flag{
	ID:           "installFromFlag",
	Value:        &installOCIFrom,
	DefaultValue: "",
	Name:         "from",
	Usage:        "install directly from an OCI image reference instead of a remote",
	EnvKeys:      []string{"INSTALL_FROM"},
}

var installTagFlag = cmdline.Flag{
	ID:           "installTagFlag",
	Value:        &installOCITag,
	DefaultValue: "latest",
	Name:         "tag",
	Usage:        "OCI image tag to install, used together with --from",
}

var installSubpathFlag = cmdline.Flag{
	ID:           "installSubpathFlag",
	Value:        &installSubpaths,
	DefaultValue: []string{},
	Name:         "subpath",
	Usage:        "restrict the install to the given subpath (repeatable); default is all subpaths",
}

var installStopOnFailFlag = cmdline.Flag{
	ID:           "installStopOnFailFlag",
	Value:        &installStopOnFail,
	DefaultValue: false,
	Name:         "stop-on-first-error",
	Usage:        "abort the whole batch on the first failed operation instead of continuing",
}

func init() {
	addCmdInit(func(cmdManager *cmdline.CommandManager) {
		cmdManager.RegisterCmd(InstallCmd)

		cmdManager.RegisterFlagForCmd(&installNoDepsFlag, InstallCmd)
		cmdManager.RegisterFlagForCmd(&installNoRelatedFlag, InstallCmd)
		cmdManager.RegisterFlagForCmd(&installNoPullFlag, InstallCmd)
		cmdManager.RegisterFlagForCmd(&installNoDeployFlag, InstallCmd)
		cmdManager.RegisterFlagForCmd(&installFromFlag, InstallCmd)
		cmdManager.RegisterFlagForCmd(&installTagFlag, InstallCmd)
		cmdManager.RegisterFlagForCmd(&installSubpathFlag, InstallCmd)
		cmdManager.RegisterFlagForCmd(&installStopOnFailFlag, InstallCmd)
	})
}

// InstallCmd flatpak install
var InstallCmd = &cobra.Command{
	DisableFlagsInUseLine: true,
	Args:                  cobra.ArbitraryArgs,
	RunE:                  installRun,
	Use:                   docs.InstallUse,
	Short:                 docs.InstallShort,
	Long:                  docs.InstallLong,
	Example:               docs.InstallExample,
}

func installSubpathsArg() transaction.Subpaths {
	if len(installSubpaths) == 0 {
		return transaction.All()
	}
	return transaction.Only(installSubpaths)
}

func installRun(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg := transaction.Config{
		NoPull:           installNoPull,
		NoDeploy:         installNoDeploy,
		AddDeps:          !installNoDeps,
		AddRelated:       !installNoRelated,
		StopOnFirstError: installStopOnFail,
	}
	tr := newTransaction(cfg)

	if installOCIFrom != "" {
		op, err := tr.AddInstallOCI(ctx, installOCIFrom, installOCITag)
		if err != nil {
			return cmdline.FlagError(err.Error())
		}
		sylog.Infof("Queued install of %s from %s", op.Ref.Pref(), installOCIFrom)
	} else {
		if len(args) < 2 {
			return cmdline.CommandError("install requires a remote and at least one ref")
		}
		remote := args[0]
		for _, refStr := range args[1:] {
			if _, err := tr.AddInstall(ctx, remote, refStr, installSubpathsArg()); err != nil {
				return cmdline.FlagError(err.Error())
			}
		}
	}

	reportResult(tr.Run(ctx))
	return nil
}
