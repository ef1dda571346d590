// Copyright (c) Contributors to the Flatpak project.
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

// Package docs holds the help and man-page text shown for each command,
// kept apart from command wiring so it can be translated independently.
package docs

// Global content for help and man pages.
const (
	// ~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~
	// root command
	// ~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~
	FlatpakUse   string = `flatpak [global options...]`
	FlatpakShort string = `Install, update and run sandboxed applications`
	FlatpakLong  string = `
  Flatpak installs and updates sandboxed applications ("refs") and their
  runtimes from remotes, and deploys them to a user or system-wide
  installation.`
	FlatpakExample string = `
  All group commands have their own help output:

    $ flatpak help install
    $ flatpak install --help`

	// ~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~
	// install command
	// ~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~
	InstallUse   string = `install [install options...] <remote> <ref>...`
	InstallShort string = `Install an application or runtime`
	InstallLong  string = `
  The 'install' command installs one or more refs from the named remote.
  Required runtimes are installed automatically unless --no-deps is given,
  and related refs (locale data, debug symbols) are installed alongside
  unless --no-related is given.

  Use 'flatpak install --from=<uri> --tag=<tag>' to install directly from an
  OCI registry reference instead of a configured remote; the ref installed
  is the one recorded in the image's annotations.`
	InstallExample string = `
  $ flatpak install flathub app/org.example.App/x86_64/stable
  $ flatpak install --from=oci://registry.example.com/app --tag=latest`

	// ~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~
	// update command
	// ~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~
	UpdateUse   string = `update [update options...] <ref>...`
	UpdateShort string = `Update installed applications and runtimes`
	UpdateLong  string = `
  The 'update' command updates the given refs to the latest commit offered
  by each ref's origin remote. Refs whose origin remote is currently
  disabled are silently skipped.`
	UpdateExample string = `
  $ flatpak update app/org.example.App/x86_64/stable
  $ flatpak update app/org.example.App/x86_64/stable runtime/org.example.Platform/x86_64/stable`

	// ~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~
	// remote command
	// ~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~
	RemoteUse   string = `remote [remote options...]`
	RemoteShort string = `Manage remote repositories`
	RemoteLong  string = `
  The 'remote' command allows you to manage the remote repositories used
  as sources for 'install' and 'update', through its subcommands.

  The remote configuration is stored in $HOME/.flatpak/remotes.yaml by
  default, or in /etc/flatpak/remotes.yaml for the system installation.`
	RemoteExample string = `
  All group commands have their own help output:

    $ flatpak help remote list
    $ flatpak remote list`

	RemoteAddUse   string = `add [add options...] <name> <uri>`
	RemoteAddShort string = `Add a new remote repository`
	RemoteAddLong  string = `
  The 'remote add' command adds a new remote to install refs from.`
	RemoteAddExample string = `
  $ flatpak remote add flathub https://flathub.org/repo`

	RemoteRemoveUse   string = `remove <name>`
	RemoteRemoveShort string = `Remove an existing remote repository`
	RemoteRemoveLong  string = `
  The 'remote remove' command removes a remote from the list of known
  remotes. It does not uninstall refs already deployed from it.`
	RemoteRemoveExample string = `
  $ flatpak remote remove flathub`

	RemoteListUse   string = `list`
	RemoteListShort string = `List all configured remote repositories`
	RemoteListLong  string = `
  The 'remote list' command lists all configured remotes, their URI, and
  whether they are currently disabled.`
	RemoteListExample string = `
  $ flatpak remote list`

	// ~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~
	// version command
	// ~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~
	VersionUse   string = `version`
	VersionShort string = `Show the program version`
	VersionLong  string = `
  The 'version' command shows the program version.`
	VersionExample string = `
  $ flatpak version`
)

// HelpTemplate is the help template used for all commands.
const HelpTemplate = `{{if (or .Long .Short)}}{{.Long}}{{if not .Long}}{{.Short}}{{end}}

{{end}}Usage:
  {{TraverseParentsUses .}} {{if .HasAvailableSubCommands}}[command]{{end}}{{if gt (len .Aliases) 0}}

Aliases:
  {{.NameAndAliases}}{{end}}{{if .HasExample}}

Examples:
{{.Example}}{{end}}{{if .HasAvailableSubCommands}}

Available Commands:{{range .Commands}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{rpad .Name .NamePadding }} {{.Short}}{{end}}{{end}}{{end}}{{if .HasAvailableLocalFlags}}

Options:
{{.LocalFlags.FlagUsagesWrapped 100 | trimTrailingWhitespaces}}{{end}}{{if .HasAvailableInheritedFlags}}

Options inherited from parent commands:
{{.InheritedFlags.FlagUsagesWrapped 100 | trimTrailingWhitespaces}}{{end}}{{if .HasHelpSubCommands}}

Additional help topics:{{range .Commands}}{{if .IsAdditionalHelpTopicCommand}}
  {{rpad .CommandPath .CommandPathPadding}} {{.Short}}{{end}}{{end}}{{end}}{{if .HasAvailableSubCommands}}

Use "{{.CommandPath}} [command] --help" for more information about a command.{{end}}
`

// UseTemplate is the usage template used for all commands.
const UseTemplate = `Usage:{{if .Runnable}}
  {{TraverseParentsUses .}}{{end}}{{if .HasAvailableSubCommands}}
  {{TraverseParentsUses .}} [command]{{end}}{{if gt (len .Aliases) 0}}

Aliases:
  {{.NameAndAliases}}{{end}}{{if .HasExample}}

Examples:
{{.Example}}{{end}}{{if .HasAvailableSubCommands}}

Available Commands:{{range .Commands}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{rpad .Name .NamePadding }} {{.Short}}{{end}}{{end}}{{end}}{{if .HasAvailableLocalFlags}}

Options:
{{.LocalFlags.FlagUsagesWrapped 100 | trimTrailingWhitespaces}}{{end}}{{if .HasAvailableInheritedFlags}}

Options inherited from parent commands:
{{.InheritedFlags.FlagUsagesWrapped 100 | trimTrailingWhitespaces}}{{end}}{{if .HasAvailableSubCommands}}

Use "{{.CommandPath}} [command] --help" for more information about a command.{{end}}
`
