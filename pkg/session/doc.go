/*
Package session implements conversation context management.

Manager is the ContextDAO used by the messenger middleware. It serializes
read-merge-write cycles per conversation with in-process locks and, when
configured, a distributed lock shared by every replica.
*/
package session
