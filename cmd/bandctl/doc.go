// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Bandctl is the operator CLI for a running Crowd Band server.

Usage:

	bandctl [--server URL] [--admin-key KEY] <command>

Commands:

	start --text T --week N [--theme T] [--duration 168h]   Start a cycle
	close <prompt-id>                                        Close and assemble
	current                                                  Show the current prompt
	songs                                                    List assembled songs
	song <week>                                              Show one song
	leaderboard [--limit N]                                  Top contributors
	admin-key [prompt-id] [--salt S]                         Derive an admin key offline

The server defaults to BANDCTL_SERVER or http://localhost:3318, and the
admin key to BANDCTL_ADMIN_KEY. admin-key reads ADMIN_KEY_SALT.
*/
package main
