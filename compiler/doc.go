/*

Process of compilation

Expression Text ->
	parse ->
Assignments (ast) ->
	compile ->
Intermediate Representation (ir) ->
	encode ->
Binary Object (obj)

Assembly Text ->
	parseasm ->
Intermediate Representation (ir) ->
	encode ->
Binary Object (obj)

*/
package compiler
