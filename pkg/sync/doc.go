/*
The sync package implements foldersync's mirroring algorithm. It makes a
replica directory an exact copy of a source directory, and keeps it that way
by re-running the algorithm at a fixed interval.

There are two types of directories:
1) The source -- This is the tree being copied. It is only ever read.
2) The replica -- This tree is owned by foldersync. Anything in it that
   doesn't exist in the source is removed.

A pass walks both trees one directory at a time. For each pair of
directories, files are copied and pruned first, then subdirectories are
synced recursively, and finally subdirectories that only exist in the replica
are removed. Files are compared by the hash of their contents, so timestamps
and permissions never trigger a copy.

Nothing is remembered between passes. Each pass lists and hashes both trees
from scratch.
*/
package sync
