// Package sceneio reads and writes scene files by extension.
//
// Files ending in .rdlb use the binary format from package rdlb. Files ending
// in .rdla use the text format installed with RegisterTextFormat. Writing to
// a path without an extension splits the scene: small values go to the text
// file and vectors longer than SplitVecSize to the binary file, and reading
// both files back restores the whole scene.
package sceneio
