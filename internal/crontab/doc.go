// Package crontab models a crontab file: per-field constraints, five-field
// schedules with a bounded next-occurrence search, and entries that memoize
// their next run.
//
// Field syntax is a comma-separated list of "*", "N" or "N-M"; "*" and ranges
// may carry a "/S" step. Day-of-month and day-of-week are combined with AND,
// unlike standard cron which uses OR when both are restricted.
package crontab
