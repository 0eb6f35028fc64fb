package j18n

const enUS = `{
    "title": "Random Data",
    "description": "This is a randomly generated JSON data.",
    "nestedObject": {
        "name": "John Doe",
        "age": "25"
    },
    "items": [
        "Item 1",
        "Item 2",
        "Item 3"
    ],
    "specialCharacters": "!@#$%^&*()",
    "specialCharacters2": "!@#(hello)$%weoroldf 及法律途径 ^&*(",
    "message": "Hello {{name}}! How are you today?",
    "menuItems": [
        "Home",
        "Products",
        "Services",
        "Contact"
    ]
}`

const zhCN = `{
    "title": "随机数据",
    "description": "这是一段随机生成的 JSON 数据。",
    "nestedObject": {
        "name": "张三",
        "age": "25 岁"
    },
    "items": [
        "物品 1",
        "物品 2",
        "物品 3"
    ],
    "specialCharacters": "!@#$%^&*()",
    "specialCharacters2": "!@#(你好)$%weoroldf and the way of law ^&*(",
    "message": "你好，{{name}}！你今天好吗？",
    "menuItems": [
        "主页",
        "产品",
        "服务",
        "联系我们"
    ]
}`

const nestedDoc = `{
    "title": "Random Data",
    "description": "This is a randomly generated JSON data.",
    "users": [
        {
            "id": 1,
            "name": "John Doe",
            "email": "john.doe@example.com",
            "dateOfBirth": "1996-12-01",
            "active": true,
            "address": {
                "street": "123 Main St",
                "city": "Anytown",
                "zipCode": "12345"
            }
        },
        {
            "id": 2,
            "name": "Jane Smith",
            "email": "jane.smith@example.com",
            "dateOfBirth": "1980-05-01",
            "active": false,
            "address": {
                "street": "456 Elm St",
                "city": "Othertown",
                "zipCode": "67890"
            }
        }
    ],
    "orders": [
        {
            "id": 1,
            "userId": 1,
            "totalPrice": 199.99,
            "note": null
        }
    ],
    "version": 3
}`
