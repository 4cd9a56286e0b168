// Command acalib inspects and converts FITS files through the acalib data model.
package main

func main() {
	Execute()
}
