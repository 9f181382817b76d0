// facturx genera facturas Factur-X (XML CII + PDF) sin base de datos ni servidor.
package main

func main() {
	Execute()
}
