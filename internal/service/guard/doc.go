// Package guard refuses to start a run while another wrapper instance is
// alive. The artifact directory is owned by exactly one instance at a time;
// concurrent runs would race the before/after snapshots.
package guard
