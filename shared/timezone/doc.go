// Package timezone keeps the hotel's local time zone. Timestamps are stored in UTC and rendered in
// this zone; APP_TIMEZONE takes an IANA name such as "Asia/Jakarta" and defaults to UTC.
package timezone
