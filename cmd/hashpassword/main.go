// hashpassword affiche la valeur à placer dans ADMIN_PASSWORD_HASH.
//
//	go run ./cmd/hashpassword <mot de passe>
package main

import (
	"fmt"
	"log"
	"os"

	"crochet_storefront/internal/admin"
)

func main() {
	if len(os.Args) != 2 || os.Args[1] == "" {
		log.Fatal("❌ Usage: hashpassword <mot de passe>")
	}
	hash, err := admin.HashSecret(os.Args[1])
	if err != nil {
		log.Fatal("❌ Erreur hash: ", err)
	}
	fmt.Println(hash)
}
