// Copyright (c) Contributors to the Flatpak project.
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

package cli

import (
	"github.com/pkestene/flatpak/internal/pkg/catalog"
	"github.com/pkestene/flatpak/internal/pkg/deploy"
	"github.com/pkestene/flatpak/internal/pkg/ociregistry"
	"github.com/pkestene/flatpak/internal/pkg/prompt"
	"github.com/pkestene/flatpak/internal/transaction"
	"github.com/pkestene/flatpak/pkg/sylog"
	"github.com/pkestene/flatpak/pkg/syfs"
)

// newDeployStore builds the deploy.Store for the requested scope. A
// user-scope store is always handed the system store too, so the
// transaction's dependency expander can see refs deployed system-wide.
func newDeployStore(system bool) deploy.Store {
	sys := deploy.NewSystemStore(syfs.SystemDeployConf())
	if system {
		return sys
	}
	return deploy.NewUserStore(syfs.DeployConf(), sys)
}

// newCatalog builds the catalog.Catalog for the requested scope, exiting
// fatally if the on-disk configuration cannot be loaded.
func newCatalog(system bool) catalog.Catalog {
	configPath := syfs.RemoteConf()
	if system {
		configPath = syfs.SystemRemoteConf()
	}
	cat, err := catalog.New(configPath, syfs.RefCache(), system)
	if err != nil {
		sylog.Fatalf("While loading remote configuration: %s", err)
	}
	return cat
}

// newPrompter returns the CLI's Prompter, honoring --noninteractive.
func newPrompter() prompt.Prompter {
	if noninteractive {
		return prompt.NonInteractive{}
	}
	return prompt.NewInteractive()
}

// newTransaction assembles a Transaction from the process-wide --system and
// --noninteractive flags plus cfg.
func newTransaction(cfg transaction.Config) *transaction.Transaction {
	return transaction.New(
		newDeployStore(systemScope),
		newCatalog(systemScope),
		&ociregistry.Client{},
		newPrompter(),
		cfg,
	)
}

// reportResult surfaces a Run error and exits with a non-zero status; it
// never returns when err is non-nil.
func reportResult(err error) {
	if err == nil {
		return
	}
	sylog.Fatalf("%s", err)
}
