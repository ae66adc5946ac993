/*
Package quorumtest provides test doubles for code built on top of the
quorum engine: address generators and dispatchers with controlled
behavior.
*/
package quorumtest
