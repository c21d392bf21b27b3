// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# CLI Flags and Environment Variables

Each flag falls back to an environment variable, then a default:

	-p              PORT             3318
	-t              STORE_TYPE       badger (badger, postgres, sqlite)
	-d              DATABASE_URL     required for postgres and sqlite
	-data-dir       DATA_DIR         ./data
	-close-interval CLOSE_INTERVAL   30s
	-rate-limit     RATE_LIMIT       5 requests/second per client
	-rate-burst     RATE_BURST       10
	-cors-origins   CORS_ORIGINS     *
	-genre          SONG_GENRE       Lofi Hip Hop
	-admin-salt     ADMIN_KEY_SALT   required
	-user-salt      USER_TOKEN_SALT  required

CLI flags take precedence over environment variables. main loads a .env
file into the environment before parsing.

# Example

	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}
	s, err := openStore(cfg)
	// ...
	handler := router.NewRouter(contest.New(s, contest.Config{Genre: cfg.SongGenre}), cfg)
*/
package cliparse
