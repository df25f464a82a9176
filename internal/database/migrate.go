package database

import (
	"context"
	"database/sql"
	"fmt"
)

// actorTableDDL is the shared layout of the five actor tables. Only
// admin_users uses the role column meaningfully; keeping the layout uniform
// lets one repository serve all variants.
const actorTableDDL = `CREATE TABLE IF NOT EXISTS %s (
	id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
	email VARCHAR(255) NULL,
	password_hash VARCHAR(255) NULL,
	display_name VARCHAR(255) NOT NULL,
	role VARCHAR(32) NOT NULL DEFAULT '',
	is_active TINYINT(1) NOT NULL DEFAULT 1,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
	UNIQUE KEY uq_%s_email (email)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`

var statements = []string{
	fmt.Sprintf(actorTableDDL, "admin_users", "admin_users"),
	fmt.Sprintf(actorTableDDL, "streamers", "streamers"),
	fmt.Sprintf(actorTableDDL, "voice_actors", "voice_actors"),
	fmt.Sprintf(actorTableDDL, "content_creators", "content_creators"),
	fmt.Sprintf(actorTableDDL, "team_members", "team_members"),

	`CREATE TABLE IF NOT EXISTS streams (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		streamer_id BIGINT UNSIGNED NOT NULL,
		stream_date DATE NOT NULL,
		duration_hours DOUBLE NOT NULL,
		match_info VARCHAR(255) NULL,
		team VARCHAR(100) NULL,
		status VARCHAR(16) NOT NULL DEFAULT 'pending',
		payment_status VARCHAR(16) NOT NULL DEFAULT 'unpaid',
		total_revenue BIGINT NOT NULL DEFAULT 0,
		streamer_earning BIGINT NOT NULL DEFAULT 0,
		arhaval_profit BIGINT NOT NULL DEFAULT 0,
		cost BIGINT NOT NULL DEFAULT 0,
		admin_notes TEXT NULL,
		reviewed_at DATETIME NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		KEY idx_streams_streamer (streamer_id),
		KEY idx_streams_date (stream_date),
		CONSTRAINT fk_streams_streamer FOREIGN KEY (streamer_id) REFERENCES streamers(id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS work_submissions (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		actor_variant VARCHAR(32) NOT NULL,
		actor_id BIGINT UNSIGNED NOT NULL,
		title VARCHAR(255) NOT NULL,
		description TEXT NULL,
		status VARCHAR(16) NOT NULL DEFAULT 'pending',
		cost BIGINT NOT NULL DEFAULT 0,
		admin_notes TEXT NULL,
		approved_at DATETIME NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		KEY idx_work_actor (actor_variant, actor_id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS extra_work_requests (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		actor_variant VARCHAR(32) NOT NULL,
		actor_id BIGINT UNSIGNED NOT NULL,
		work_date DATE NOT NULL,
		hours DOUBLE NOT NULL,
		reason VARCHAR(512) NOT NULL,
		status VARCHAR(16) NOT NULL DEFAULT 'pending',
		cost BIGINT NOT NULL DEFAULT 0,
		admin_notes TEXT NULL,
		approved_at DATETIME NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		KEY idx_extra_actor (actor_variant, actor_id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS voiceover_scripts (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		creator_id BIGINT UNSIGNED NOT NULL,
		voice_actor_id BIGINT UNSIGNED NULL,
		title VARCHAR(255) NOT NULL,
		text MEDIUMTEXT NOT NULL,
		audio_url VARCHAR(512) NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		KEY idx_scripts_creator (creator_id),
		KEY idx_scripts_va (voice_actor_id),
		CONSTRAINT fk_scripts_creator FOREIGN KEY (creator_id) REFERENCES content_creators(id) ON DELETE CASCADE,
		CONSTRAINT fk_scripts_va FOREIGN KEY (voice_actor_id) REFERENCES voice_actors(id) ON DELETE SET NULL
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS edit_packs (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		token CHAR(64) NOT NULL,
		script_id BIGINT UNSIGNED NOT NULL,
		expires_at DATETIME NOT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE KEY uq_edit_packs_token (token),
		CONSTRAINT fk_packs_script FOREIGN KEY (script_id) REFERENCES voiceover_scripts(id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS financial_records (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		month CHAR(7) NOT NULL,
		category VARCHAR(100) NOT NULL,
		description TEXT NULL,
		income BIGINT NOT NULL DEFAULT 0,
		expense BIGINT NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		UNIQUE KEY uq_finance_month_category (month, category)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS social_media_stats (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		week CHAR(8) NOT NULL,
		platform VARCHAR(50) NOT NULL,
		followers BIGINT NOT NULL DEFAULT 0,
		views BIGINT NOT NULL DEFAULT 0,
		engagement BIGINT NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE KEY uq_stats_week_platform (week, platform)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS monthly_plans (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		month CHAR(7) NOT NULL,
		title VARCHAR(255) NOT NULL,
		description TEXT NULL,
		done TINYINT(1) NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		UNIQUE KEY uq_plans_month_title (month, title)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS audit_logs (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		actor_variant VARCHAR(32) NOT NULL,
		actor_id BIGINT UNSIGNED NOT NULL,
		action VARCHAR(100) NOT NULL,
		entity VARCHAR(100) NOT NULL,
		entity_id BIGINT UNSIGNED NOT NULL DEFAULT 0,
		detail TEXT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		KEY idx_audit_created (created_at)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// Apply creates any missing tables. Every statement is idempotent, so Apply
// is safe to run on each startup.
func Apply(ctx context.Context, db *sql.DB) error {
	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}
